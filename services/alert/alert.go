package alert

import (
	"context"
	"fmt"

	"msuhthegreat/pricefinder/internal/product"
)

// Dispatcher represents a service for sending price drop notifications
type Dispatcher interface {
	// Send delivers one notification message
	Send(ctx context.Context, message string) error
}

// FormatDrop renders the notification body for one dropped item.
func FormatDrop(result product.ComparisonResult) string {
	title := result.Title
	if title == "" {
		title = result.Identity
	}
	return fmt.Sprintf("%s\nOld: $%s\nNew: $%s\nID: %s",
		title,
		result.PreviousPrice.StringFixed(2),
		result.CurrentPrice.StringFixed(2),
		result.Identity,
	)
}
