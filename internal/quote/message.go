package quote

import (
	"fmt"
	"net/url"
	"strings"
)

// MessageServiceLabel is the long label used inside the quotation text.
func MessageServiceLabel(s Service) string {
	switch s {
	case ServiceLimpieza:
		return "Limpieza de tanque"
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

type MessageOptions struct {
	// IncludeImageURLs is false for the WhatsApp variant: wa.me carries
	// text only, images travel by email.
	IncludeImageURLs bool
}

// BuildMessage renders the deterministic quotation text: service, the
// non-empty detail lines, location, optional map link and image list,
// contact data, the computed estimate and the fixed disclaimer.
func BuildMessage(servicio Service, datos FormData, imageURLs []string, est Estimate, opts MessageOptions) string {
	get := func(id string) string { return strings.TrimSpace(datos[id]) }

	ciudad := get("ciudad")
	if ciudad == "" {
		ciudad = "Valledupar"
	}

	var detalles []string
	if servicio == ServiceLimpieza || servicio == ServiceInstalacion {
		detalles = append(detalles, "Tipo de tanque: "+get("tipoTanque"))
		detalles = append(detalles, "Capacidad: "+get("capacidadTanque")+" L")
		if v := get("alturaTanque"); v != "" {
			detalles = append(detalles, "Altura: "+v+" m")
		}
		if v := get("accesibilidad"); v != "" {
			detalles = append(detalles, "Accesibilidad: "+v)
		}
		if servicio == ServiceInstalacion {
			estructura := get("requiereEstructura")
			if estructura == "" {
				estructura = "no"
			}
			detalles = append(detalles, "Estructura nueva: "+estructura)
		}
	}
	if servicio == ServiceReparacion {
		detalles = append(detalles, "Daño: "+get("tipoDano"))
	}
	if servicio == ServiceInspeccion || servicio == ServiceOtro {
		if v := get("descripcionOtro"); v != "" {
			detalles = append(detalles, "Descripción: "+v)
		}
	}

	mapaStr := ""
	if mapa := get("ubicacionMapa"); mapa != "" {
		mapaStr = "\nMapa: " + mapa
	}

	imagenesStr := ""
	if opts.IncludeImageURLs && len(imageURLs) > 0 {
		lines := make([]string, 0, len(imageURLs))
		for i, u := range imageURLs {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, u))
		}
		imagenesStr = "\nImágenes:\n" + strings.Join(lines, "\n")
	}

	extraNota := ""
	if servicio == ServiceInstalacion || servicio == ServiceReparacion {
		extraNota = " No incluye accesorios ni materiales cuando se requiere de estructura."
	}

	return "Hola DH2OCOL, solicito una cotización.\n\n" +
		"Servicio: " + MessageServiceLabel(servicio) + "\n" +
		strings.Join(detalles, "\n") + "\n\n" +
		"Ubicación: " + get("barrio") + ", " + ciudad + ". Dir: " + get("direccion") + ". Ref: " + get("referencia") + mapaStr + imagenesStr + "\n" +
		"Cliente: " + get("nombreCliente") + ". Tel: " + get("telefonoCliente") + ". Correo: " + get("correoCliente") + "\n\n" +
		"Estimado: " + FormatCOP(est.Valor) + " | Tiempo: " + est.Tiempo + "\n" +
		"Nota: El valor final puede variar tras revisión en sitio." + extraNota
}

// WhatsAppURL builds the wa.me deep link for a message.
func WhatsAppURL(phone, message string) string {
	digits := DigitsOnly(phone)
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + encoded
}

// MapsURL builds the share-location link from raw coordinates; the
// WhatsApp flow uses this instead of a reverse-geocoded address.
func MapsURL(lat, lon float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g", lat, lon)
}
