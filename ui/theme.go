// Package ui draws the play field and HUD with raylib and turns mouse and
// keyboard input into game commands.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Boundary       rl.Color
	Can            rl.Color
	CanActive      rl.Color
	CanDown        rl.Color
	Slipper        rl.Color
	Band           rl.Color
	Sleeping       rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.Color{R: 200, G: 225, B: 240, A: 255},
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Boundary:       rl.Color{R: 90, G: 70, B: 50, A: 255},
		Can:            rl.Color{R: 190, G: 40, B: 40, A: 255},
		CanActive:      rl.Color{R: 230, G: 90, B: 60, A: 255},
		CanDown:        rl.Color{R: 120, G: 120, B: 120, A: 255},
		Slipper:        rl.Color{R: 40, G: 80, B: 160, A: 255},
		Band:           rl.Color{R: 90, G: 50, B: 20, A: 255},
		Sleeping:       rl.Color{R: 255, G: 255, B: 255, A: 90},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}
