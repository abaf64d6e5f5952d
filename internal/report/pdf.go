package report

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/terraincognita07/ketchup/internal/services"
)

// PDFColumns is the fixed column order of the printed summary.
var PDFColumns = []string{"Datum", "Tid", "Typ", "Humör", "Hud"}

var pdfGridSizes = []uint{3, 2, 2, 3, 2}

type Labels struct {
	Title     string
	Patient   string
	Generated string
}

func DefaultLabels() Labels {
	return Labels{
		Title:     "Doseringsrapport",
		Patient:   "Patient: %s",
		Generated: "Skapad: %s",
	}
}

func RenderDosePDF(doseReport services.DoseReport, labels Labels) ([]byte, error) {
	defaults := DefaultLabels()
	if labels.Title == "" {
		labels.Title = defaults.Title
	}
	if labels.Patient == "" {
		labels.Patient = defaults.Patient
	}
	if labels.Generated == "" {
		labels.Generated = defaults.Generated
	}

	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(labels.Title, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(6, func() {
				m.Text(fmt.Sprintf(labels.Patient, doseReport.PatientName), props.Text{
					Top:   2,
					Align: consts.Left,
					Size:  11,
				})
			})
			m.Col(6, func() {
				m.Text(fmt.Sprintf(labels.Generated, doseReport.GeneratedAt.Format("2006-01-02")), props.Text{
					Top:   2,
					Align: consts.Right,
					Size:  11,
				})
			})
		})
	})

	rows := make([][]string, 0, len(doseReport.Rows))
	for _, row := range doseReport.Rows {
		rows = append(rows, []string{row.Datum, row.Tid, row.Typ, row.Humor, row.Hud})
	}

	m.Row(6, func() {})
	if len(rows) == 0 {
		m.Row(7, func() {
			for index, column := range PDFColumns {
				m.Col(pdfGridSizes[index], func() {
					m.Text(column, props.Text{Style: consts.Bold, Align: consts.Center, Size: 10})
				})
			}
		})
	} else {
		m.TableList(PDFColumns, rows, props.TableList{
			HeaderProp: props.TableListContent{
				Size:      10,
				GridSizes: pdfGridSizes,
			},
			ContentProp: props.TableListContent{
				Size:      10,
				GridSizes: pdfGridSizes,
			},
			Align:                consts.Center,
			AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
			HeaderContentSpace:   1,
			Line:                 false,
		})
	}

	buffer, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render dose pdf: %w", err)
	}
	return buffer.Bytes(), nil
}
