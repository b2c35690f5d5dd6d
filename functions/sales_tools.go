package functions

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"google.golang.org/genai"
)

const storeBaseURL = "https://cervezafortuna.com"

// productURLs maps known beer names to their product pages. Names not
// listed here fall back to the catalog page.
var productURLs = map[string]string{
	"ippolita":       storeBaseURL + "/producto/ippolita/",
	"pale ale":       storeBaseURL + "/producto/pale-ale/",
	"california ale": storeBaseURL + "/producto/california-ale/",
	"oat stout":      storeBaseURL + "/producto/oat-stout/",
	"neippolita":     storeBaseURL + "/producto/neippolita/",
	"hazy pale ale":  storeBaseURL + "/producto/hazy-pale-ale/",
	"sake ale":       storeBaseURL + "/producto/sake-ale/",
}

// RegisterSalesTools wires the discount and purchase assistance tools.
// All results are simulated. No real payment provider is contacted.
func RegisterSalesTools(r *Registry) {
	r.Register(Tool{Declaration: generateDiscountCodeDecl, Handler: func(ctx context.Context, args map[string]any) map[string]any {
		return generateDiscountCode(args)
	}})
	r.Register(Tool{Declaration: calculateDiscountDecl, Handler: func(ctx context.Context, args map[string]any) map[string]any {
		return calculateDiscount(args)
	}})
	r.Register(Tool{Declaration: processPurchaseDecl, Handler: func(ctx context.Context, args map[string]any) map[string]any {
		return processPurchaseAssistance(args)
	}})
	r.Register(Tool{Declaration: collectShippingDecl, Handler: func(ctx context.Context, args map[string]any) map[string]any {
		return collectShippingInfo(args)
	}})
	r.Register(Tool{Declaration: generatePaymentLinkDecl, Handler: func(ctx context.Context, args map[string]any) map[string]any {
		return generatePaymentLink(args)
	}})
}

var generateDiscountCodeDecl = &genai.FunctionDeclaration{
	Name:        "generate_discount_code",
	Description: "Generate a personalized discount code. Earned discounts (after a tasting or guided purchase) are larger than basic ones.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"user_name": {
				Type:        genai.TypeString,
				Description: "Customer name used to personalize the code",
			},
			"earned_discount": {
				Type:        genai.TypeBoolean,
				Description: "True if the user completed a tasting or guided purchase process",
			},
		},
	},
}

var calculateDiscountDecl = &genai.FunctionDeclaration{
	Name:        "calculate_discount",
	Description: "Calculate the discounted total for an amount. Always use this for discount math instead of computing it yourself.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"amount": {
				Type:        genai.TypeNumber,
				Description: "Original amount in MXN",
			},
			"percentage": {
				Type:        genai.TypeNumber,
				Description: "Discount percentage between 0 and 100",
			},
		},
		Required: []string{"amount", "percentage"},
	},
}

var processPurchaseDecl = &genai.FunctionDeclaration{
	Name:        "process_purchase_assistance",
	Description: "Assemble a simulated order for the beers the user wants to buy, producing an order id and per beer purchase links.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"user_name": {Type: genai.TypeString, Description: "Customer name"},
			"beers": {
				Type:        genai.TypeArray,
				Description: "Names of the beers to purchase",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"discount_code": {
				Type:        genai.TypeString,
				Description: "Discount code to apply, if any",
			},
		},
		Required: []string{"user_name", "beers"},
	},
}

var collectShippingDecl = &genai.FunctionDeclaration{
	Name:        "collect_shipping_info",
	Description: "Validate and store the customer's shipping information before generating a payment link.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"full_name":   {Type: genai.TypeString, Description: "Customer full name"},
			"email":       {Type: genai.TypeString, Description: "Contact email"},
			"phone":       {Type: genai.TypeString, Description: "Phone number, at least 10 digits"},
			"address":     {Type: genai.TypeString, Description: "Street address"},
			"city":        {Type: genai.TypeString, Description: "City"},
			"state":       {Type: genai.TypeString, Description: "State"},
			"postal_code": {Type: genai.TypeString, Description: "Postal code"},
		},
		Required: []string{"full_name", "email", "phone", "address", "city", "state", "postal_code"},
	},
}

var generatePaymentLinkDecl = &genai.FunctionDeclaration{
	Name:        "generate_payment_link",
	Description: "Generate a simulated Stripe checkout link for a confirmed order. The link expires in 24 hours.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"order_id":       {Type: genai.TypeString, Description: "Order id from process_purchase_assistance"},
			"customer_name":  {Type: genai.TypeString, Description: "Customer name"},
			"customer_email": {Type: genai.TypeString, Description: "Customer email"},
			"items": {
				Type:        genai.TypeArray,
				Description: "Items in the order",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"total_amount": {
				Type:        genai.TypeNumber,
				Description: "Total amount to charge in MXN",
			},
			"discount_code": {
				Type:        genai.TypeString,
				Description: "Applied discount code, if any",
			},
		},
		Required: []string{"order_id", "customer_name", "customer_email", "items", "total_amount"},
	},
}

func generateDiscountCode(args map[string]any) map[string]any {
	userName := stringArg(args, "user_name")
	earned := true
	if _, present := args["earned_discount"]; present {
		earned = boolArg(args, "earned_discount")
	}

	discount := 5
	if earned {
		discount = 10 + rand.Intn(10)
	}

	namePart := "VIP"
	if userName != "" && !strings.EqualFold(userName, "Cliente") {
		runes := []rune(strings.ToUpper(userName))
		if len(runes) > 3 {
			runes = runes[:3]
		}
		namePart = string(runes)
	}
	code := fmt.Sprintf("FORTUNA%d-%s%d", discount, namePart, 1000+rand.Intn(9000))

	return map[string]any{
		"success":             true,
		"code":                code,
		"discount_percentage": discount,
		"earned":              earned,
		"message":             fmt.Sprintf("¡Código especial generado! Usa %s para obtener %d%% de descuento en tu compra.", code, discount),
	}
}

func calculateDiscount(args map[string]any) map[string]any {
	amount, ok := floatArg(args, "amount")
	if !ok || amount < 0 {
		return map[string]any{"success": false, "error": "amount must be a non-negative number"}
	}
	pct, ok := floatArg(args, "percentage")
	if !ok || pct < 0 || pct > 100 {
		return map[string]any{"success": false, "error": "percentage must be between 0 and 100"}
	}
	discounted := math.Round(amount*pct) / 100
	return map[string]any{
		"success":         true,
		"original_amount": amount,
		"percentage":      pct,
		"discount_amount": discounted,
		"final_amount":    math.Round((amount-discounted)*100) / 100,
		"currency":        "MXN",
	}
}

func processPurchaseAssistance(args map[string]any) map[string]any {
	userName := stringArg(args, "user_name")
	beers := stringSliceArg(args, "beers")
	if len(beers) == 0 {
		return map[string]any{"success": false, "error": "beers list is empty"}
	}
	discountCode := stringArg(args, "discount_code")

	orderID := fmt.Sprintf("FORT-%d", 10000+rand.Intn(90000))

	links := make(map[string]any, len(beers))
	for _, beer := range beers {
		links[beer] = productURL(beer)
	}

	result := map[string]any{
		"success":          true,
		"order_id":         orderID,
		"beers":            beers,
		"purchase_links":   links,
		"total_items":      len(beers),
		"discount_applied": discountCode != "",
		"message":          fmt.Sprintf("¡Perfecto, %s! Tu pedido está listo para procesar.", userName),
	}
	if discountCode != "" {
		result["discount_code"] = discountCode
	}
	return result
}

// productURL matches a beer name against the known product pages,
// falling back to the catalog page.
func productURL(name string) string {
	lower := strings.ToLower(name)
	for key, url := range productURLs {
		if strings.Contains(lower, key) {
			return url
		}
	}
	return storeBaseURL + "/inicio/cervezas/"
}

func collectShippingInfo(args map[string]any) map[string]any {
	fullName := stringArg(args, "full_name")
	email := stringArg(args, "email")
	phone := stringArg(args, "phone")
	address := stringArg(args, "address")

	switch {
	case len(fullName) < 3:
		return map[string]any{"success": false, "error": "Nombre inválido", "message": "El nombre debe tener al menos 3 caracteres"}
	case !strings.Contains(email, "@"):
		return map[string]any{"success": false, "error": "Email inválido", "message": "Por favor proporciona un email válido"}
	case len(phone) < 10:
		return map[string]any{"success": false, "error": "Teléfono inválido", "message": "El teléfono debe tener al menos 10 dígitos"}
	case len(address) < 5:
		return map[string]any{"success": false, "error": "Dirección inválida", "message": "Por favor proporciona una dirección completa"}
	}

	info := map[string]any{
		"full_name":   fullName,
		"email":       email,
		"phone":       phone,
		"address":     address,
		"city":        stringArg(args, "city"),
		"state":       stringArg(args, "state"),
		"postal_code": stringArg(args, "postal_code"),
	}
	return map[string]any{
		"success":       true,
		"shipping_info": info,
		"message":       fmt.Sprintf("Información de envío confirmada para %s", fullName),
	}
}

func generatePaymentLink(args map[string]any) map[string]any {
	orderID := stringArg(args, "order_id")
	customerName := stringArg(args, "customer_name")
	customerEmail := stringArg(args, "customer_email")
	if orderID == "" || customerName == "" || customerEmail == "" {
		return map[string]any{"success": false, "error": "order_id, customer_name and customer_email are required"}
	}
	total, ok := floatArg(args, "total_amount")
	if !ok || total <= 0 {
		return map[string]any{"success": false, "error": "total_amount must be a positive number"}
	}

	sessionID := fmt.Sprintf("cs_test_%012d", rand.Int63n(900000000000)+100000000000)
	paymentLink := "https://checkout.stripe.com/c/pay/" + sessionID

	result := map[string]any{
		"success":        true,
		"payment_link":   paymentLink,
		"order_id":       orderID,
		"customer_name":  customerName,
		"customer_email": customerEmail,
		"items":          stringSliceArg(args, "items"),
		"amount":         total,
		"currency":       "MXN",
		"expires_in":     "24 horas",
		"message":        fmt.Sprintf("Link de pago generado exitosamente para %s", customerName),
	}
	if code := stringArg(args, "discount_code"); code != "" {
		result["discount_code"] = code
	}
	return result
}
