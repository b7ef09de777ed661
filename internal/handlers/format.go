package handlers

import (
	"fmt"
	"strings"

	"github.com/Kerhoff/RepBoT/internal/models"
)

const maxListed = 30

func formatRepresentative(r models.Representative) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 %s (#%d)\n", r.FullName, r.ID))
	sb.WriteString(fmt.Sprintf("✉️ %s\n", r.Email))
	if r.Phone != nil && *r.Phone != "" {
		sb.WriteString(fmt.Sprintf("📞 %s\n", *r.Phone))
	}
	if !r.BirthDate.IsZero() {
		sb.WriteString(fmt.Sprintf("🎂 %s\n", r.BirthDate))
	}
	sb.WriteString(fmt.Sprintf("🌎 %s", r.Country))
	if !r.IsActive {
		sb.WriteString("\n⛔ inactive")
	}
	return sb.String()
}

func formatChild(c models.Child) string {
	birth := c.BirthDate.String()
	if birth == "" {
		birth = "unknown"
	}
	return fmt.Sprintf("#%d %s, born %s, %s", c.ID, c.FullName, birth, c.Country)
}

func formatProduct(p models.Product) string {
	line := fmt.Sprintf("#%d %s, %.2f, stock %d", p.ID, p.Name, p.Price, p.Stock)
	if !p.IsActive {
		line += " (inactive)"
	}
	return line
}

func formatProductDetail(p models.Product) string {
	return fmt.Sprintf("📦 %s (#%d)\n%s\n\n💲 %.2f\n📊 Stock: %d", p.Name, p.ID, p.Description, p.Price, p.Stock)
}

func formatInvitation(i models.Invitation) string {
	if i.IsUsed && i.UsedAt != nil {
		return fmt.Sprintf("%s, used %s", i.Code, i.UsedAt.Format("2006-01-02 15:04"))
	}
	if i.IsUsed {
		return i.Code + ", used"
	}
	return fmt.Sprintf("%s, created %s", i.Code, i.CreatedAt.Format("2006-01-02"))
}

// formatList renders items one per line under title, or empty when there
// are none.
func formatList[T any](title string, items []T, format func(T) string, empty string) string {
	if len(items) == 0 {
		return title + "\n" + empty
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d)\n", title, len(items)))
	for i, it := range items {
		if i == maxListed {
			sb.WriteString(fmt.Sprintf("… and %d more\n", len(items)-maxListed))
			break
		}
		sb.WriteString("• " + format(it) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
