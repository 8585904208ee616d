package mail

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template names used by the notification pipeline.
const (
	TemplateOrderPlacedBuyer  = "order_placed_buyer"
	TemplateOrderPlacedSeller = "order_placed_seller"
	TemplateOrderConfirmed    = "order_confirmed"
	TemplateOrderCancelled    = "order_cancelled"
	TemplateOrderShipped      = "order_shipped"
	TemplateOrderDelivered    = "order_delivered"
	TemplateSellerApproved    = "seller_approved"
	TemplateWelcome           = "welcome"
)

var templateSources = map[string]struct {
	subject string
	body    string
}{
	TemplateOrderPlacedBuyer: {
		subject: "Order {{.OrderNumber}} received",
		body: `Hi {{.Name}},

Thank you for your order {{.OrderNumber}}.

Total: {{.Total}} EUR

We will notify you as soon as the sellers confirm your order.

Your DriveShop team`,
	},
	TemplateOrderPlacedSeller: {
		subject: "New order {{.OrderNumber}}",
		body: `Hi {{.Name}},

You have received a new order {{.OrderNumber}} containing items from your shop.

Please confirm the order in your seller dashboard.

Your DriveShop team`,
	},
	TemplateOrderConfirmed: {
		subject: "Order {{.OrderNumber}} confirmed",
		body: `Hi {{.Name}},

Your order {{.OrderNumber}} has been confirmed and is being prepared for shipping.

Your DriveShop team`,
	},
	TemplateOrderCancelled: {
		subject: "Order {{.OrderNumber}} cancelled",
		body: `Hi {{.Name}},

Your order {{.OrderNumber}} has been cancelled.

If you already paid, the amount will be refunded to your original payment method.

Your DriveShop team`,
	},
	TemplateOrderShipped: {
		subject: "Order {{.OrderNumber}} shipped",
		body: `Hi {{.Name}},

Good news, your order {{.OrderNumber}} is on its way.

Your DriveShop team`,
	},
	TemplateOrderDelivered: {
		subject: "Order {{.OrderNumber}} delivered",
		body: `Hi {{.Name}},

Your order {{.OrderNumber}} has been delivered. We hope you enjoy your purchase.

Feel free to leave a review for the items you bought.

Your DriveShop team`,
	},
	TemplateSellerApproved: {
		subject: "Your seller account has been approved",
		body: `Hi {{.Name}},

Your seller account has been approved. You can now create listings and start selling on DriveShop.

Your DriveShop team`,
	},
	TemplateWelcome: {
		subject: "Welcome to DriveShop",
		body: `Hi {{.Name}},

Welcome to DriveShop. Your account has been created successfully.

Your DriveShop team`,
	},
}

// TemplateData carries the values available to mail templates.
type TemplateData struct {
	Name        string
	OrderNumber string
	Total       string
}

// Templates renders mail subjects and bodies from built-in templates.
type Templates struct {
	subjects map[string]*template.Template
	bodies   map[string]*template.Template
}

// NewTemplates parses all built-in templates. Parsing happens once at
// startup so a broken template fails fast instead of on first send.
func NewTemplates() (*Templates, error) {
	t := &Templates{
		subjects: make(map[string]*template.Template, len(templateSources)),
		bodies:   make(map[string]*template.Template, len(templateSources)),
	}
	for name, src := range templateSources {
		subject, err := template.New(name + ".subject").Parse(src.subject)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subject template %s: %w", name, err)
		}
		body, err := template.New(name + ".body").Parse(src.body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse body template %s: %w", name, err)
		}
		t.subjects[name] = subject
		t.bodies[name] = body
	}
	return t, nil
}

// Render produces the subject and body for the named template.
func (t *Templates) Render(name string, data TemplateData) (subject, body string, err error) {
	st, ok := t.subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template: %s", name)
	}

	var subjectBuf bytes.Buffer
	if err := st.Execute(&subjectBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject for %s: %w", name, err)
	}

	var bodyBuf bytes.Buffer
	if err := t.bodies[name].Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render body for %s: %w", name, err)
	}

	return subjectBuf.String(), bodyBuf.String(), nil
}
