package form

import (
	"bytes"

	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

func pdf(name string) *models.File {
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 64)...)
	return &models.File{Name: name, ContentType: models.ContentTypePDF, Size: int64(len(data)), Data: data}
}

func completeApplication() *models.Application {
	app := models.NewApplication()
	app.FullName = "Asha Rao"
	app.Mobile = "9876543210"
	app.Email = "asha@example.com"
	app.City = "Pune"
	app.State = "maharashtra"
	app.BusinessName = "Rao Traders"
	app.BusinessType = "trading"
	app.BusinessVintage = "3-5"
	app.AnnualTurnover = "25-50l"
	app.LoanAmount = "500000"
	app.LoanPurpose = "Working capital"
	for _, k := range models.DocumentKinds {
		app.Documents[k] = pdf(string(k) + ".pdf")
	}
	return app
}

// fillEngine drives e through steps 1-3 and stages every document.
func fillEngine(e *Engine) {
	fields := map[string]string{
		"fullName":        "Asha Rao",
		"mobile":          "9876543210",
		"email":           "asha@example.com",
		"city":            "Pune",
		"state":           "Maharashtra",
		"businessName":    "Rao Traders",
		"businessType":    "trading",
		"businessVintage": "3-5",
		"annualTurnover":  "25-50l",
		"loanAmount":      "₹5,00,000",
		"loanPurpose":     "Working capital",
	}
	for k, v := range fields {
		_ = e.SetField(k, v)
	}
	for _, k := range models.DocumentKinds {
		_ = e.SetDocument(k, pdf(string(k)+".pdf"))
	}
}

func registryWithOptionalGST() *registry.DocumentRegistry {
	return registry.DefaultRegistry().WithOptional(models.DocumentGST)
}
