package quote

import (
	"testing"
)

func TestComputeEstimateLimpieza(t *testing.T) {
	tests := []struct {
		name       string
		datos      FormData
		wantValor  int64
		wantTiempo string
	}{
		{
			name:       "metalico 500L media",
			datos:      FormData{"tipoTanque": "metalico", "capacidadTanque": "500", "accesibilidad": "media"},
			wantValor:  115920, // 70000 × 1.2 × 1.2 × 1.15
			wantTiempo: "1 h",
		},
		{
			name:       "metalico 600L media uses next bucket",
			datos:      FormData{"tipoTanque": "metalico", "capacidadTanque": "600", "accesibilidad": "media"},
			wantValor:  144900, // 70000 × 1.2 × 1.5 × 1.15
			wantTiempo: "1 h",
		},
		{
			name:       "defaults when fields empty",
			datos:      FormData{},
			wantValor:  70000,
			wantTiempo: "1 h",
		},
		{
			name:       "capacity above last bucket keeps 2.5",
			datos:      FormData{"tipoTanque": "plastico", "capacidadTanque": "99999", "accesibilidad": "facil"},
			wantValor:  175000,
			wantTiempo: "2 h",
		},
		{
			name:       "unknown tank type falls back to factor 1",
			datos:      FormData{"tipoTanque": "oro", "capacidadTanque": "250", "accesibilidad": "facil"},
			wantValor:  70000,
			wantTiempo: "1 h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEstimate(ServiceLimpieza, tt.datos, nil)
			if got.Valor != tt.wantValor {
				t.Errorf("Valor = %d, want %d", got.Valor, tt.wantValor)
			}
			if got.Tiempo != tt.wantTiempo {
				t.Errorf("Tiempo = %q, want %q", got.Tiempo, tt.wantTiempo)
			}
		})
	}
}

func TestComputeEstimateInstalacionConEstructura(t *testing.T) {
	datos := FormData{
		"capacidadTanque":    "1500",
		"accesibilidad":      "dificil",
		"requiereEstructura": "si",
	}

	got := ComputeEstimate(ServiceInstalacion, datos, nil)

	// 150000 × 1 (plastico default) × 2.0 × 1.3 × 1.3 = 507000
	if got.Valor != 507000 {
		t.Errorf("Valor = %d, want 507000", got.Valor)
	}
	// 4h × 3.38 × 0.8 = 10.816 → 11 h
	if got.Tiempo != "11 h" {
		t.Errorf("Tiempo = %q, want %q", got.Tiempo, "11 h")
	}
}

func TestComputeEstimateReparacion(t *testing.T) {
	tests := []struct {
		dano string
		want int64
	}{
		{"fuga", 110000},
		{"fisura", 120000},
		{"corrosion", 130000},
		{"valvulas", 115000},
		{"otro", 110000},
		{"", 110000},          // defaults to fuga
		{"meteorito", 110000}, // unknown damage keeps the fallback factor
	}

	for _, tt := range tests {
		got := ComputeEstimate(ServiceReparacion, FormData{"tipoDano": tt.dano}, nil)
		if got.Valor != tt.want {
			t.Errorf("tipoDano=%q: Valor = %d, want %d", tt.dano, got.Valor, tt.want)
		}
	}
}

func TestComputeEstimateInspeccion(t *testing.T) {
	t.Run("renders minutes", func(t *testing.T) {
		got := ComputeEstimate(ServiceInspeccion, FormData{}, nil)
		if got.Valor != 50000 {
			t.Errorf("Valor = %d, want 50000", got.Valor)
		}
		if got.Tiempo != "15 min" {
			t.Errorf("Tiempo = %q, want %q", got.Tiempo, "15 min")
		}
	})

	t.Run("hard access keywords bump the factor", func(t *testing.T) {
		for _, desc := range []string{"acceso dificil", "muy difícil de llegar", "tanque en lo alto"} {
			got := ComputeEstimate(ServiceInspeccion, FormData{"descripcionOtro": desc}, nil)
			if got.Valor != 57500 {
				t.Errorf("desc=%q: Valor = %d, want 57500", desc, got.Valor)
			}
		}
	})

	t.Run("plain description keeps base", func(t *testing.T) {
		got := ComputeEstimate(ServiceInspeccion, FormData{"descripcionOtro": "revisión de rutina"}, nil)
		if got.Valor != 50000 {
			t.Errorf("Valor = %d, want 50000", got.Valor)
		}
	})
}

func TestComputeEstimateSinServicio(t *testing.T) {
	got := ComputeEstimate("", FormData{}, nil)
	if got.Valor != 0 || got.Tiempo != "-" {
		t.Errorf("got %+v, want zero estimate with \"-\" time", got)
	}
}

func TestComputeEstimateParamsOverride(t *testing.T) {
	params := Params{"quote_base_limpieza": 90000, "quote_hours_limpieza": 2}

	got := ComputeEstimate(ServiceLimpieza, FormData{"capacidadTanque": "250"}, params)
	if got.Valor != 90000 {
		t.Errorf("Valor = %d, want 90000 (override applied)", got.Valor)
	}
	// 2h × 1 × 0.8 = 1.6 → 2 h
	if got.Tiempo != "2 h" {
		t.Errorf("Tiempo = %q, want %q", got.Tiempo, "2 h")
	}

	// Partial overrides leave the other services on defaults.
	got = ComputeEstimate(ServiceInspeccion, FormData{}, params)
	if got.Valor != 50000 {
		t.Errorf("Valor = %d, want 50000 (default kept)", got.Valor)
	}
}

func TestComputeEstimateIsDeterministic(t *testing.T) {
	datos := FormData{"tipoTanque": "fibra", "capacidadTanque": "800", "accesibilidad": "media"}
	first := ComputeEstimate(ServiceLimpieza, datos, nil)
	for i := 0; i < 10; i++ {
		if got := ComputeEstimate(ServiceLimpieza, datos, nil); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestFormatCOP(t *testing.T) {
	tests := []struct {
		valor int64
		want  string
	}{
		{0, "$ 0"},
		{500, "$ 500"},
		{115920, "$ 115.920"},
		{507000, "$ 507.000"},
		{1234567, "$ 1.234.567"},
	}

	for _, tt := range tests {
		if got := FormatCOP(tt.valor); got != tt.want {
			t.Errorf("FormatCOP(%d) = %q, want %q", tt.valor, got, tt.want)
		}
	}
}
