package layer

// Units describes the measurement scale of a layer's pixel values: the
// scale factor relative to tonnes of carbon, whether the value is a rate
// per hectare of ground area, and the display label.
type Units struct {
	PerHectare bool
	Scale      float64
	Label      string
}

// The closed set of recognized units. Blank marks dimensionless or
// categorical layers and is inert under conversion.
var (
	Blank    = Units{false, 1, ""}
	Tc       = Units{false, 1, "tC/yr"}
	Ktc      = Units{false, 1e3, "KtC/yr"}
	Mtc      = Units{false, 1e6, "MtC/yr"}
	TcPerHa  = Units{true, 1, "tC/ha/yr"}
	KtcPerHa = Units{true, 1e3, "KtC/ha/yr"}
	MtcPerHa = Units{true, 1e6, "MtC/ha/yr"}
)

// conversionRatio is the factor applied to pixel values when moving between
// scales, ignoring the per-hectare component.
func conversionRatio(from, to Units) float64 {
	return from.Scale / to.Scale
}
