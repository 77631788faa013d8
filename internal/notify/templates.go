package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Skotchmaster/halkabite/internal/models"
)

const layout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #ff6b35 0%, #f7931e 100%); padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">HalkaBite</h1>
  </div>
  <div style="padding: 30px; background: #f9f9f9;">{{template "body" .}}</div>
  <div style="background: #333; color: white; padding: 15px; text-align: center;">
    <p style="margin: 0;">&copy; HalkaBite. All rights reserved.</p>
  </div>
</div>`

const orderBody = `{{define "body"}}
    <h2 style="color: #333;">Order Confirmed!</h2>
    <p>Thank you for your order. Here are your order details:</p>
    <div style="background: white; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <p><strong>Order Number:</strong> {{.OrderNumber}}</p>
      <h3>Items:</h3>
      <ul>{{range .Items}}<li>{{.Name}} x {{.Quantity}} - &#2547;{{.Price.StringFixed 2}}</li>{{end}}</ul>
      <hr style="border: 1px solid #eee;">
      <p style="font-size: 18px;"><strong>Total: &#2547;{{.TotalAmount.StringFixed 2}}</strong></p>
    </div>
    <p>We'll notify you when your order is on its way!</p>
{{end}}`

const welcomeBody = `{{define "body"}}
    <h2 style="color: #333;">Welcome to HalkaBite, {{.}}!</h2>
    <p>Thank you for joining our food delivery family. Get ready to explore delicious meals from the best restaurants near you!</p>
{{end}}`

var (
	orderTmpl   = template.Must(template.Must(template.New("layout").Parse(layout)).Parse(orderBody))
	welcomeTmpl = template.Must(template.Must(template.New("layout").Parse(layout)).Parse(welcomeBody))
)

func OrderConfirmation(to string, order *models.Order) (Message, error) {
	var buf bytes.Buffer
	if err := orderTmpl.Execute(&buf, order); err != nil {
		return Message{}, fmt.Errorf("render order confirmation: %w", err)
	}
	return Message{
		To:      to,
		Subject: "Order Confirmed - " + order.OrderNumber,
		HTML:    buf.String(),
	}, nil
}

func Welcome(to, name string) (Message, error) {
	var buf bytes.Buffer
	if err := welcomeTmpl.Execute(&buf, name); err != nil {
		return Message{}, fmt.Errorf("render welcome: %w", err)
	}
	return Message{
		To:      to,
		Subject: "Welcome to HalkaBite!",
		HTML:    buf.String(),
	}, nil
}
