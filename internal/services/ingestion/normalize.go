package ingestion

import "strings"

// canonicalColumns maps the spreadsheet's known column labels to the store's
// column names. Anything else falls through to the generic rule below.
var canonicalColumns = map[string]string{
	"Fecha":                "fecha",
	"Facturación_Plazo":    "facturacion_plazo",
	"Tiempo_Facturación":   "tiempo_facturacion",
	"Integración_Sistemas": "integracion_sistemas",
	"Cierre_Contable":      "cierre_contable",
	"Errores":              "errores",
	"Reportes":             "reportes",
	"Cobranza":             "cobranza",
	"Control_Gastos":       "control_gastos",
	"Inventarios":          "inventarios",
}

// NormalizeColumn maps a raw column name to a store column name. Unknown
// names are lowercased with every character outside [a-z0-9] replaced by an
// underscore; they pass through and are simply never bound at insert time.
func NormalizeColumn(name string) string {
	if canonical, ok := canonicalColumns[name]; ok {
		return canonical
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
