package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/models"
)

// PaymentLink builds the upi://pay deep link a customer's UPI app opens to
// pay for order. It returns "" for cash orders or when no payee is set.
func PaymentLink(cfg config.PaymentConfig, order *models.Order) string {
	if order.PaymentMethod != models.PaymentMethodUPI || cfg.UPIVPA == "" {
		return ""
	}

	params := []string{
		"pa=" + escape(cfg.UPIVPA),
		"pn=" + escape(cfg.UPIPayeeName),
		"am=" + fmt.Sprintf("%.2f", order.Total),
		"cu=INR",
	}
	if cfg.UPIAID != "" {
		params = append(params, "aid="+escape(cfg.UPIAID))
	}
	params = append(params, "tr="+escape(order.ShortID()))

	return "upi://pay?" + strings.Join(params, "&")
}

// escape percent-encodes like the UPI apps expect: spaces as %20, '@' kept
func escape(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(escaped, "%40", "@")
}
