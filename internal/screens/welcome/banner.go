package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzidrill/internal/ui/theme"
)

const bannerArt = `
 ╦ ╦╔═╗╔╗╔╔═╗╦╔╦╗╦═╗╦╦  ╦
 ╠═╣╠═╣║║║╔═╝║ ║║╠╦╝║║  ║
 ╩ ╩╩ ╩╝╚╝╚═╝╩═╩╝╩╚═╩╩═╝╩═╝`

const bannerCompact = "H A N Z I D R I L L"

// RenderBanner returns the banner in the primary color, or a compact
// fallback for terminals narrower than 32 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 32 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
