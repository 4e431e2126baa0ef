package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type marotoProvider struct{}

func New() Provider {
	return &marotoProvider{}
}

func (p *marotoProvider) RenderDocument(ctx context.Context, input RenderInput) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, input.Title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	// Document meta
	m.AddRow(16,
		col.New(6).Add(
			text.New("Number: "+input.DocumentNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+input.IssueDate, props.Text{Top: 4}),
			text.New("Date due: "+input.DueDate, props.Text{Top: 8}),
			text.New("Currency: "+input.Currency, props.Text{Top: 12}),
		),
		col.New(6),
	)

	// Addresses
	m.AddRow(35,
		col.New(6).Add(
			text.New(input.OrgName, props.Text{Style: fontstyle.Bold}),
			text.New(input.OrgAddress, props.Text{Top: 5}),
			text.New(input.OrgTaxID, props.Text{Top: 9}),
			text.New(input.OrgEmail, props.Text{Top: 13}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(input.BillToName, props.Text{Top: 5}),
			text.New(input.BillToAddress, props.Text{Top: 9}),
			text.New(input.BillToTaxID, props.Text{Top: 13}),
		),
	)

	// Table header
	m.AddRow(10,
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "Disc.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range input.Items {
		m.AddRow(8,
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, item.Discount, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Totals
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, input.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if input.GlobalDiscount != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Discount", props.Text{Size: 9}),
			text.NewCol(2, input.GlobalDiscount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	for _, line := range input.TaxLines {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, line.Label, props.Text{Size: 9}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if input.Shipping != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Shipping", props.Text{Size: 9}),
			text.NewCol(2, input.Shipping, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, input.Total, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if input.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, input.Notes, props.Text{Size: 8, Top: 5}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
