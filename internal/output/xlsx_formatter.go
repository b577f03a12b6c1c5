package output

import (
	"bytes"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
)

const (
	moneyFormat  = "#,##0.00"
	factorFormat = "0.0000"
)

// XLSXFormatter exports a workbook with a cash flow sheet and a summary sheet.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(result *domain.ModelResult) ([]byte, error) {
	file := xlsx.NewFile()

	if err := writeCashFlowSheet(file, result); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(file, result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "xlsx: write workbook")
	}
	return buf.Bytes(), nil
}

func writeCashFlowSheet(file *xlsx.File, result *domain.ModelResult) error {
	sheet, err := file.AddSheet("Cash Flow")
	if err != nil {
		return eris.Wrap(err, "xlsx: add cash flow sheet")
	}

	header := sheet.AddRow()
	for _, h := range CashFlowHeaders {
		header.AddCell().SetString(h)
	}

	for _, y := range result.Years {
		row := sheet.AddRow()
		row.AddCell().SetInt(y.Year)
		for _, v := range []decimal.Decimal{y.Generation, y.Opex, y.Revenue, y.CashFlow} {
			row.AddCell().SetFloatWithFormat(v.InexactFloat64(), moneyFormat)
		}
		row.AddCell().SetFloatWithFormat(y.DiscountFactor.InexactFloat64(), factorFormat)
		for _, v := range []decimal.Decimal{
			y.DiscountedCost,
			y.DiscountedEnergy,
			y.DiscountedRevenue,
			y.DiscountedCashFlow,
			y.CumulativeDiscountedCashFlow,
		} {
			row.AddCell().SetFloatWithFormat(v.InexactFloat64(), moneyFormat)
		}
	}
	return nil
}

func writeSummarySheet(file *xlsx.File, result *domain.ModelResult) error {
	sheet, err := file.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}
	s := result.Summary

	addText := func(label, value string) {
		row := sheet.AddRow()
		row.AddCell().SetString(label)
		row.AddCell().SetString(value)
	}
	addNumber := func(label string, v decimal.Decimal, format string) {
		row := sheet.AddRow()
		row.AddCell().SetString(label)
		row.AddCell().SetFloatWithFormat(v.InexactFloat64(), format)
	}

	name := result.Name
	if name == "" {
		name = "Project"
	}
	addText("Project", name)
	addNumber("LCOE (£/MWh)", s.LCOE, moneyFormat)
	addNumber("Undiscounted LCOE (£/MWh)", s.UndiscountedLCOE, moneyFormat)
	addText("IRR", FormatRate(s.IRR, s.IRRStatus))
	addText("Discounted payback", FormatPayback(s.PaybackPeriod, s.PaysBack))
	addNumber("NPV (£)", s.TotalDiscountedCashFlow, moneyFormat)
	addNumber("Total capex (£)", s.TotalCapex, moneyFormat)
	addNumber("Capex per MW (£)", s.CapexPerMW, moneyFormat)
	addNumber("Grid connection cost (£)", result.GridCost, moneyFormat)
	addNumber("Total generation (MWh)", s.TotalGeneration, moneyFormat)
	addNumber("Total revenue (£)", s.TotalRevenue, moneyFormat)
	addNumber("Offtaker savings per year (£)", s.YearlySavings, moneyFormat)
	addNumber("Offtaker savings, lifetime (£)", s.TotalSavings, moneyFormat)
	addNumber("Land option income, lifetime (£)", s.TotalLandOptionIncome, moneyFormat)
	addNumber("Developer premium (£)", s.TotalDeveloperPremium, moneyFormat)
	return nil
}
