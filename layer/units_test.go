package layer

import "testing"

func TestConversionRatio(t *testing.T) {
	if r := conversionRatio(Ktc, Tc); r != 1e3 {
		t.Fatal(r)
	}
	if r := conversionRatio(Tc, Mtc); r != 1e-6 {
		t.Fatal(r)
	}
	if r := conversionRatio(TcPerHa, KtcPerHa); r != 1e-3 {
		t.Fatal(r)
	}
	if r := conversionRatio(MtcPerHa, MtcPerHa); r != 1 {
		t.Fatal(r)
	}
}

func TestConvertUnitsNoOp(t *testing.T) {
	// Blank layers are inert under conversion.
	l := New(nil, "cat.tif", 2010, WithUnits(Blank))
	got, err := l.ConvertUnits(MtcPerHa)
	if err != nil {
		t.Fatal(err)
	}
	if got != l || got.Units() != Blank {
		t.Fatal(got.Units())
	}

	// Same scale and area basis never touches the raster.
	l = New(nil, "npp.tif", 2010, WithUnits(Tc))
	if got, err = l.ConvertUnits(Tc); err != nil {
		t.Fatal(err)
	}
	if got != l || got.Units() != Tc {
		t.Fatal(got.Units())
	}
}
