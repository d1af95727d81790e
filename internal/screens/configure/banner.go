package configure

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizrun/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗██████╗ ██╗   ██╗███╗   ██╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██╔══██╗██║   ██║████╗  ██║
 ██║   ██║██║   ██║██║  ███╔╝ ██████╔╝██║   ██║██╔██╗ ██║
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██╔══██╗██║   ██║██║╚██╗██║
 ╚██████╔╝╚██████╔╝██║███████╗██║  ██║╚██████╔╝██║ ╚████║
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝`

const bannerCompact = "Q U I Z R U N"

// bannerWidth is the widest line of bannerArt plus margin.
const bannerWidth = 60

// bannerMinHeight is the screen height below which the banner is skipped.
const bannerMinHeight = 28

// RenderBanner returns the QUIZRUN banner styled in the primary color.
// Uses a compact fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
