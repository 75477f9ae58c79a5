package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/egg-balance/internal/balance"
	"github.com/vovakirdan/egg-balance/internal/core"
)

// The scene is laid out on a virtual 800x500 canvas and scaled to the
// terminal; simulator offsets (fall, drift, gust, shake) are canvas pixels.
const (
	canvasW = 800.0
	canvasH = 500.0

	wallHalfW = 10.0
	wallTop   = 240.0 // egg pivot rests here
	brickH    = 22.0

	eggHeight = 70.0
	eggHalfW  = 26.0

	lipsW  = 101.0
	lipsY  = 190.0
	gustY  = 165.0
	gustXL = 160.0
	timerY = 100.0
)

// crackPath is the hairline drawn on the egg when time is nearly up, in egg
// coordinates (origin at the egg's base, y up is negative).
var crackPath = [][2]float64{{24, -20}, {10, -10}, {16, -30}, {2, -38}}

// viewport maps canvas pixels onto screen cells.
type viewport struct {
	sx, sy float64
}

func newViewport(s *core.Screen) viewport {
	return viewport{
		sx: float64(s.Width()) / canvasW,
		sy: float64(s.Height()) / canvasH,
	}
}

func (v viewport) col(px float64) int { return int(math.Floor(px * v.sx)) }
func (v viewport) row(py float64) int { return int(math.Floor(py * v.sy)) }

// pixel returns the canvas coordinates of the center of cell (x, y).
func (v viewport) pixel(x, y int) (float64, float64) {
	return (float64(x) + 0.5) / v.sx, (float64(y) + 0.5) / v.sy
}

// DrawScene draws one simulator frame. The wall and egg move with the shake
// offset; lips, gust and timer stay put.
func DrawScene(s *core.Screen, sc balance.Scene) {
	s.Clear()
	if s.Width() == 0 || s.Height() == 0 {
		return
	}
	v := newViewport(s)

	drawWall(s, v, sc.ShakeX, sc.ShakeY)
	drawEgg(s, v, sc)
	drawLips(s, v, sc)
	drawGust(s, v, sc.Gust)

	if sc.TimerText != "" {
		c := core.ColorDefault
		if sc.Cracked {
			c = core.ColorBrightRed
		}
		s.DrawTextCentered(v.row(timerY), sc.TimerText, c)
	}

	switch {
	case sc.OverlayAlpha >= 40:
		s.Tint(core.ColorBrightRed)
	case sc.OverlayAlpha >= 15:
		s.Tint(core.ColorRed)
	}
}

func drawWall(s *core.Screen, v viewport, dx, dy float64) {
	cx := canvasW/2 + dx
	left, right := v.col(cx-wallHalfW), v.col(cx+wallHalfW)
	if right <= left {
		right = left + 1
	}
	topPx := wallTop + dy
	top := v.row(topPx)

	for y := max(top, 0); y < s.Height(); y++ {
		r := '#'
		if y == top || mortarRow(v, y, topPx) {
			r = '='
		}
		for x := left; x <= right; x++ {
			s.SetColored(x, y, r, core.ColorRed)
		}
	}
}

// mortarRow reports whether a brick seam falls inside row y.
func mortarRow(v viewport, y int, topPx float64) bool {
	start, end := float64(y)/v.sy, float64(y+1)/v.sy
	k := math.Ceil((start - topPx) / brickH)
	return topPx+k*brickH < end
}

// drawEgg rasterizes the egg by mapping every cell back into egg
// coordinates: undo the fall translation, then the tilt rotation.
func drawEgg(s *core.Screen, v viewport, sc balance.Scene) {
	pivotX := canvasW/2 + sc.Drift + sc.ShakeX
	pivotY := wallTop + sc.Fall + sc.ShakeY
	sin, cos := math.Sincos(sc.Tilt)
	tol := 0.6 / v.sx

	for y := range s.Height() {
		for x := range s.Width() {
			px, py := v.pixel(x, y)
			dx, dy := px-pivotX, py-pivotY
			lx := dx*cos + dy*sin
			ly := -dx*sin + dy*cos

			if !insideEgg(lx, ly) {
				continue
			}
			if sc.Cracked && nearPath(lx, ly, crackPath, tol) {
				s.SetColored(x, y, '/', core.ColorGray)
				continue
			}
			s.Set(x, y, '@')
		}
	}
}

// insideEgg reports whether a point in egg coordinates lies in the shell.
// The outline is an ellipse widened toward the base.
func insideEgg(lx, ly float64) bool {
	if ly > 0 || ly < -eggHeight {
		return false
	}
	t := (ly + eggHeight/2) / (eggHeight / 2) // -1 at the tip, 1 at the base
	half := eggHalfW * math.Sqrt(1-t*t) * (1 + 0.2*t)
	return math.Abs(lx) <= half
}

func nearPath(x, y float64, path [][2]float64, tol float64) bool {
	for i := 1; i < len(path); i++ {
		if segmentDist(x, y, path[i-1], path[i]) <= tol {
			return true
		}
	}
	return false
}

func segmentDist(x, y float64, a, b [2]float64) float64 {
	abx, aby := b[0]-a[0], b[1]-a[1]
	l2 := abx*abx + aby*aby
	t := 0.0
	if l2 > 0 {
		t = core.ClampF(((x-a[0])*abx+(y-a[1])*aby)/l2, 0, 1)
	}
	return math.Hypot(x-(a[0]+t*abx), y-(a[1]+t*aby))
}

func drawLips(s *core.Screen, v viewport, sc balance.Scene) {
	row := v.row(lipsY)
	if sc.LeftLip > 0.01 {
		edge := core.Lerp(-lipsW, 0, sc.LeftLip) + lipsW
		s.DrawTextColored(v.col(edge)-2, row, "}=", core.ColorBrightRed)
	}
	if sc.RightLip > 0.01 {
		edge := core.Lerp(canvasW, canvasW-lipsW, sc.RightLip)
		s.DrawTextColored(v.col(edge), row, "={", core.ColorBrightRed)
	}
}

func drawGust(s *core.Screen, v viewport, g balance.Gust) {
	if !g.Active || g.Alpha <= 0 {
		return
	}
	c := core.ColorGray
	switch {
	case g.Alpha > 170:
		c = core.ColorBrightWhite
	case g.Alpha > 85:
		c = core.ColorCyan
	}

	row := v.row(gustY)
	if g.Side == balance.SideLeft {
		s.DrawTextColored(v.col(gustXL+g.X), row, "~~>", c)
		return
	}
	s.DrawTextColored(v.col(canvasW-gustXL+g.X)-3, row, "<~~", c)
}

// OverlayInfo is the shell state shown on top of the scene.
type OverlayInfo struct {
	Phase    balance.Phase
	Mode     balance.Mode
	Last     *balance.Event
	Elapsed  float64
	BestTime float64
	MicLive  bool
	Err      string
}

// DrawOverlay draws the menu and end-of-session panels.
func DrawOverlay(s *core.Screen, info OverlayInfo) {
	var lines []string
	var title string
	titleColor := core.ColorBrightYellow

	switch info.Phase {
	case balance.PhaseMenu:
		title = "EGG BALANCE"
		lines = []string{
			"keep the egg on the wall",
			fmt.Sprintf("mode: %s   [h] toggle", info.Mode),
			"[<-/->] side   [space] blow",
			"[enter] Start   [q] quit",
		}
		if info.BestTime > 0 {
			lines = append(lines, fmt.Sprintf("best: %.1fs", info.BestTime))
		}
	case balance.PhaseGameOver:
		title = "game over"
		titleColor = core.ColorBrightRed
		lines = []string{fmt.Sprintf("survived %.1fs", info.Elapsed)}
		if info.Last != nil && info.Mode == balance.ModeNormal {
			lines = append(lines, fmt.Sprintf("%.1fs short", info.Last.TimeRemaining))
		}
		lines = append(lines, "[enter] Retry   [b] menu")
	case balance.PhaseVictory:
		title = "SOMEONE TOLD ME I FELL OFF"
		lines = []string{
			fmt.Sprintf("%s mode cleared", info.Mode),
			"[enter] Play Again   [b] menu",
		}
	default:
		if info.MicLive {
			s.DrawTextColored(1, 0, "mic", core.ColorCyan)
		}
		return
	}
	if info.Err != "" {
		lines = append(lines, info.Err)
	}

	width := len([]rune(title))
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	height := len(lines) + 4

	box := core.NewRect((s.Width()-width)/2, panelTop(s, height), width, height)
	s.DrawRect(core.NewRect(box.X+1, box.Y+1, box.W-2, box.H-2), ' ')
	s.DrawBox(box, core.ColorGray)
	s.DrawTextCentered(box.Y+1, title, titleColor)
	for i, l := range lines {
		s.DrawTextCentered(box.Y+3+i, l, core.ColorBrightWhite)
	}
}

// panelTop places a panel of the given height near the top of the screen.
func panelTop(s *core.Screen, height int) int {
	return max(0, min(s.Height()/6, s.Height()-height))
}
