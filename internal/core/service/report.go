package service

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/99minutos/tracking-system/internal/core/ports"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"upper": strings.ToUpper,
	"date":  func(t time.Time) string { return t.UTC().Format("2006-01-02") },
	"stamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
	"dims":  dimensions,
}).Parse(`TRACKING REPORT - {{.TrackingNumber}}
================================================

CARRIER: {{.Carrier}}
TYPE: {{upper (print .Type)}}
STATUS: {{.Status.Description}}
{{- if .ActualDelivery}}
DELIVERED: {{date .ActualDelivery.UTC}}
{{- else if not .EstimatedDelivery.IsZero}}
ESTIMATED DELIVERY: {{date .EstimatedDelivery}}
{{- end}}
{{- if .Degraded}}
NOTE: carrier unreachable, showing last known data
{{- end}}
{{with .Sender}}{{if .Name}}
SENDER:
{{.Name}}
{{.Address}}
{{.City}}, {{.Country}}
{{end}}{{end}}
{{- with .Recipient}}{{if .Name}}
RECIPIENT:
{{.Name}}
{{.Address}}
{{.City}}, {{.Country}}
{{end}}{{end}}
DETAILS:
- Weight: {{.Package.WeightKg}} kg
- Dimensions: {{dims .}}
- Service: {{.Package.ServiceLevel}}
- Insurance: {{.Insurance.Amount}} {{.Insurance.Currency}}

HISTORY:
{{range .Timeline}}{{stamp .Timestamp}} - {{.Description}}{{if .Location}} ({{.Location}}){{end}}
{{end}}
{{- if .Package.Instructions}}
INSTRUCTIONS: {{.Package.Instructions}}
{{- end}}`))

// Report renders a plain-text summary of the tracking information.
func Report(info *ports.AdvancedTrackingInfo) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, info); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func dimensions(info *ports.AdvancedTrackingInfo) string {
	d := info.Package.Dimensions
	return fmt.Sprintf("%gx%gx%g cm", d.LengthCm, d.WidthCm, d.HeightCm)
}
