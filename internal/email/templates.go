package email

import (
	"fmt"
	"strings"

	"github.com/example/artisan-market/internal/catalog"
)

// BuildOrderConfirmationBody renders the order confirmation HTML.
func BuildOrderConfirmationBody(orderID string, total catalog.Decimal, items []OrderItem) string {
	var itemsHTML strings.Builder
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		lineTotal := catalog.Decimal(int64(item.Price) * int64(item.Quantity))
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">$%s</td>
			</tr>`,
			name,
			item.Quantity,
			item.Price.String(),
			lineTotal.String(),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #b07d4f 0%%, #7a4f2b 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Each piece in your order is handmade by an independent artisan. We'll let you know as soon as it ships.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #b07d4f; padding-bottom: 10px;">Your items</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Order total</span>
			<span style="font-size: 24px; font-weight: bold; color: #b07d4f; margin-left: 10px;">$%s</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. If anything about your order looks wrong, reply to this email and our support team will help.
		</p>
	</div>
</body>
</html>`, orderID, itemsHTML.String(), total.String())
}

// BuildOrderShippedBody renders the shipping notification HTML.
func BuildOrderShippedBody(orderID string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #b07d4f 0%%, #7a4f2b 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Your order has shipped</h1>
	</div>
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Order <span style="font-family: monospace; font-weight: bold;">%s</span> is on its way to you.</p>
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">This is an automated message.</p>
	</div>
</body>
</html>`, orderID)
}
