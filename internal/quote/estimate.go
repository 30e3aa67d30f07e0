// Package quote implements the pricing, validation and messaging rules of
// the DH2OCOL quotation wizard. Everything here is pure: the HTTP layer and
// the web client feed it state and render whatever comes back.
package quote

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Service string

const (
	ServiceLimpieza    Service = "limpieza"
	ServiceReparacion  Service = "reparacion"
	ServiceInstalacion Service = "instalacion"
	ServiceInspeccion  Service = "inspeccion"
	ServiceOtro        Service = "otro"
)

// FormData holds the wizard field values keyed by field id. Checkbox fields
// store "1" when checked and "" otherwise.
type FormData map[string]string

// Params are admin-configured overrides for the base pricing table, keyed
// like `quote_base_limpieza` / `quote_hours_limpieza`.
type Params map[string]float64

type Estimate struct {
	Valor  int64  `json:"valor"`
	Tiempo string `json:"tiempo"`
}

// ServiceLabel is the short label shown in the summary header.
func ServiceLabel(s Service) string {
	switch s {
	case ServiceLimpieza:
		return "Limpieza"
	case ServiceReparacion:
		return "Reparación"
	case ServiceInstalacion:
		return "Instalación"
	case ServiceInspeccion:
		return "Inspección con dron"
	case ServiceOtro:
		return "Otro"
	default:
		return "Servicio"
	}
}

func basePricing(servicio Service, params Params) (base, hours float64) {
	lookup := func(key string, fallback float64) float64 {
		if v, ok := params[key]; ok && v > 0 {
			return v
		}
		return fallback
	}

	switch servicio {
	case ServiceLimpieza:
		return lookup("quote_base_limpieza", 70000), lookup("quote_hours_limpieza", 0.75)
	case ServiceReparacion:
		return lookup("quote_base_reparacion", 100000), lookup("quote_hours_reparacion", 1)
	case ServiceInstalacion:
		return lookup("quote_base_instalacion", 150000), lookup("quote_hours_instalacion", 4)
	case ServiceInspeccion:
		return lookup("quote_base_inspeccion", 50000), lookup("quote_hours_inspeccion", 0.25)
	default:
		return lookup("quote_base_otro", 100000), lookup("quote_hours_otro", 2)
	}
}

var tipoTanqueFactor = map[string]float64{
	"plastico":    1,
	"fibra":       1.1,
	"metalico":    1.2,
	"elevado":     1.15,
	"subterraneo": 1.25,
}

var accesibilidadFactor = map[string]float64{
	"facil":   1,
	"media":   1.15,
	"dificil": 1.3,
}

var tipoDanoFactor = map[string]float64{
	"fuga":      1.1,
	"fisura":    1.2,
	"corrosion": 1.3,
	"valvulas":  1.15,
	"otro":      1.1,
}

// Buckets are a closed enumeration: anything above 2000 L keeps the last
// factor, with no upper clamp (known product gap, preserved on purpose).
func capacidadFactor(litros float64) float64 {
	switch {
	case litros <= 250:
		return 1
	case litros <= 500:
		return 1.2
	case litros <= 1000:
		return 1.5
	case litros <= 2000:
		return 2.0
	default:
		return 2.5
	}
}

// ComputeEstimate is a pure function of (servicio, datos, params); callers
// re-run it on every field change to refresh the summary.
func ComputeEstimate(servicio Service, datos FormData, params Params) Estimate {
	if servicio == "" {
		return Estimate{Valor: 0, Tiempo: "-"}
	}

	base, hours := basePricing(servicio, params)
	factor := 1.0

	if servicio == ServiceLimpieza || servicio == ServiceInstalacion {
		tipo := datos["tipoTanque"]
		if tipo == "" {
			tipo = "plastico"
		}
		capacidad, err := strconv.ParseFloat(strings.TrimSpace(datos["capacidadTanque"]), 64)
		if err != nil || capacidad == 0 {
			capacidad = 250
		}
		acces := datos["accesibilidad"]
		if acces == "" {
			acces = "facil"
		}

		tf, ok := tipoTanqueFactor[tipo]
		if !ok {
			tf = 1
		}
		af, ok := accesibilidadFactor[acces]
		if !ok {
			af = 1
		}

		factor *= tf * capacidadFactor(capacidad) * af
		if servicio == ServiceInstalacion && datos["requiereEstructura"] == "si" {
			factor *= 1.3
		}
	}

	if servicio == ServiceReparacion {
		dano := datos["tipoDano"]
		if dano == "" {
			dano = "fuga"
		}
		df, ok := tipoDanoFactor[dano]
		if !ok {
			df = 1.1
		}
		factor *= df
	}

	if servicio == ServiceInspeccion {
		// Dron: ajuste leve si la descripción sugiere acceso complicado.
		desc := strings.ToLower(datos["descripcionOtro"])
		if strings.Contains(desc, "difícil") || strings.Contains(desc, "dificil") || strings.Contains(desc, "alto") {
			factor *= 1.15
		}
	}

	valor := int64(math.Round(base * factor))

	timeFactor := 0.8
	if servicio == ServiceInspeccion {
		timeFactor = 1.0
	}
	totalHours := hours * factor * timeFactor

	var tiempo string
	if servicio == ServiceInspeccion {
		minutos := int64(math.Round(totalHours * 60))
		if minutos < 60 {
			tiempo = fmt.Sprintf("%d min", minutos)
		} else {
			tiempo = fmt.Sprintf("%d h", int64(math.Round(float64(minutos)/60)))
		}
	} else {
		tiempo = fmt.Sprintf("%d h", int64(math.Round(totalHours)))
	}

	return Estimate{Valor: valor, Tiempo: tiempo}
}

// FormatCOP renders a value the way es-CO currency formatting does,
// without fraction digits: 115920 -> "$ 115.920".
func FormatCOP(valor int64) string {
	neg := valor < 0
	if neg {
		valor = -valor
	}

	digits := strconv.FormatInt(valor, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := "$ " + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
