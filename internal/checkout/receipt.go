package checkout

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"camelia/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateLayout is the es-AR date format used on receipts.
const DateLayout = "2/1/2006, 15:04:05"

var pricePrinter = message.NewPrinter(language.MustParse("es-AR"))

// FormatPrice formats v as whole pesos with es-AR grouping, e.g. $125.000.
func FormatPrice(v float64) string {
	return "$" + pricePrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatDate formats t for receipts.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"price": FormatPrice,
	"date":  FormatDate,
}).Parse(`<h2>Comprobante de Compra #{{.OrderID}}</h2>
<p><strong>Fecha:</strong> {{date .Date}}</p>
<p><strong>Cliente:</strong> {{.UserEmail}}</p>
<h3>Detalle del Pedido</h3>
<ul>{{range .Items}}<li>{{.Quantity}} x {{.Name}} - {{price .Price}} c/u</li>{{end}}</ul>
<p><strong>Subtotal:</strong> {{price .Subtotal}}</p>
<p><strong>Costo de Envío:</strong> {{price .ShippingCost}} ({{.ShippingMethod}})</p>
<p><strong>Costo de Empaque:</strong> {{price .PackagingCost}}</p>
<p><strong>Método de Pago:</strong> {{.PaymentMethodName}}</p>
<hr/>
<h3>TOTAL FINAL: {{price .Total}}</h3>
`))

// RenderReceipt renders the HTML receipt of order.
func RenderReceipt(order model.Order) (string, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("failed to render receipt for order %d: %w", order.OrderID, err)
	}
	return buf.String(), nil
}
