package gui

import "fyne.io/fyne/v2"

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">
<rect x="40" y="56" width="168" height="120" rx="14" fill="#2c3e50" transform="rotate(-8 124 116)"/>
<rect x="52" y="76" width="168" height="120" rx="14" fill="#ecf0f1" stroke="#c0392b" stroke-width="8"/>
<path d="M96 136h80M136 112l40 24-40 24" fill="none" stroke="#c0392b" stroke-width="12" stroke-linecap="round" stroke-linejoin="round"/>
</svg>`

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	return fyne.NewStaticResource("flashdeck.svg", []byte(iconSVG))
}
