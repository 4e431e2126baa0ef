package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	contactdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/providers/pdf"
)

var documentTitles = map[documentdomain.DocumentKind]string{
	documentdomain.DocumentKindInvoice: "Invoice",
	documentdomain.DocumentKindQuote:   "Quote",
	documentdomain.DocumentKindExpense: "Expense",
}

func (s *Server) RenderDocumentPDF(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := s.documentSvc.GetByID(ctx, strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	org, err := s.organizationSvc.GetByID(ctx, s.orgIDString(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var billTo *contactdomain.Contact
	if doc.Document.ContactID != nil {
		billTo, err = s.contactSvc.GetByID(ctx, *doc.Document.ContactID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
	}

	input := buildRenderInput(doc, org.Name, org.Address, org.TaxNumber, org.Email, billTo)

	reader, err := s.pdfProvider.RenderDocument(ctx, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordPDFRendered(ctx, string(doc.Document.Kind))
	}

	filename := input.DocumentNumber
	if filename == "" {
		filename = "draft"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename+".pdf"))
	c.Data(http.StatusOK, "application/pdf", payload)
}

func buildRenderInput(doc *documentdomain.DocumentResponse, orgName, orgAddress, orgTaxID, orgEmail string, billTo *contactdomain.Contact) pdf.RenderInput {
	currency := doc.Document.Currency

	input := pdf.RenderInput{
		Title:     documentTitles[doc.Document.Kind],
		IssueDate: formatDate(doc.Document.IssueDate),
		DueDate:   formatDate(doc.Document.DueDate),
		Currency:  currency,

		OrgName:    orgName,
		OrgAddress: orgAddress,
		OrgTaxID:   orgTaxID,
		OrgEmail:   orgEmail,

		Subtotal:       formatMoney(doc.Totals.Subtotal, currency),
		GlobalDiscount: formatMoney(-doc.Totals.GlobalDiscountAmount, currency),
		Shipping:       formatMoney(doc.Totals.ShippingCost, currency),
		Total:          formatMoney(doc.Totals.TotalAmount, currency),

		Notes: doc.Document.Notes,
	}

	if doc.Document.DocumentNumber != nil {
		input.DocumentNumber = *doc.Document.DocumentNumber
	}

	if billTo != nil {
		input.BillToName = billTo.Name
		input.BillToAddress = billTo.Address
		input.BillToTaxID = billTo.TaxNumber
	}

	for _, item := range doc.Items {
		input.Items = append(input.Items, pdf.RenderItem{
			Description: item.Description,
			Qty:         formatQuantity(item.Quantity),
			UnitPrice:   formatMoney(item.UnitPrice, currency),
			Discount:    formatLineDiscount(item, currency),
			Amount:      formatMoney(item.Amount, currency),
		})
	}

	if len(doc.TaxLines) > 0 {
		for _, line := range doc.TaxLines {
			input.TaxLines = append(input.TaxLines, pdf.RenderTaxLine{
				Label:  fmt.Sprintf("%s (%s%%)", line.TaxName, strconv.FormatFloat(line.TaxRate, 'f', -1, 64)),
				Amount: formatMoney(line.Amount, currency),
			})
		}
	} else {
		for name, amount := range doc.Totals.TaxBreakdown {
			input.TaxLines = append(input.TaxLines, pdf.RenderTaxLine{
				Label:  name,
				Amount: formatMoney(amount, currency),
			})
		}
	}

	return input
}

func formatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func formatQuantity(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func formatLineDiscount(item documentdomain.DocumentItem, currency string) string {
	switch {
	case item.DiscountAmount != 0:
		return formatMoney(-item.DiscountAmount, currency)
	case item.DiscountPercent != 0:
		return strconv.FormatFloat(item.DiscountPercent, 'f', -1, 64) + "%"
	default:
		return ""
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
