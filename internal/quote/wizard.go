package quote

import (
	"strconv"
	"strings"
)

const (
	StepServicio  = 1
	StepDetalles  = 2
	StepUbicacion = 3
	StepContacto  = 4
	StepResumen   = 5
)

// Field is one entry of the per-step form schema. The schema both drives
// validation and tells the client which inputs belong to the step, instead
// of scanning whatever happens to be in the DOM.
type Field struct {
	ID    string
	Label string
	// Valid reports whether a non-empty requirement is satisfied; nil
	// means "present and non-blank" is enough.
	Valid func(value string) bool
}

var fieldLabels = map[string]string{
	"tipoTanque":      "Tipo de tanque",
	"capacidadTanque": "Capacidad del tanque",
	"accesibilidad":   "Nivel de accesibilidad",
	"tipoDano":        "Tipo de daño",
	"descripcionOtro": "Descripción",
	"barrio":          "Barrio",
	"ciudad":          "Ciudad",
	"direccion":       "Dirección",
	"referencia":      "Referencia",
	"nombreCliente":   "Nombre",
	"telefonoCliente": "Teléfono (WhatsApp)",
	"aceptaPolitica":  "Aceptar la Política de Privacidad",
}

func requiredField(id string) Field {
	return Field{ID: id, Label: fieldLabels[id]}
}

func positiveNumberField(id string) Field {
	return Field{
		ID:    id,
		Label: fieldLabels[id],
		Valid: func(value string) bool {
			n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			return err == nil && n > 0
		},
	}
}

// StepFields returns the required fields of a step given the selected
// service. Step 1 (service selection) and step 5 (summary) have none.
func StepFields(step int, servicio Service) []Field {
	switch step {
	case StepDetalles:
		switch servicio {
		case ServiceLimpieza, ServiceInstalacion:
			return []Field{
				requiredField("tipoTanque"),
				positiveNumberField("capacidadTanque"),
				requiredField("accesibilidad"),
			}
		case ServiceReparacion:
			return []Field{requiredField("tipoDano")}
		default:
			return []Field{requiredField("descripcionOtro")}
		}
	case StepUbicacion:
		return []Field{
			requiredField("barrio"),
			requiredField("ciudad"),
			requiredField("direccion"),
		}
	case StepContacto:
		return []Field{
			requiredField("nombreCliente"),
			requiredField("telefonoCliente"),
			requiredField("aceptaPolitica"),
		}
	default:
		return nil
	}
}

// ValidationError names the fields that block a step, with the user-facing
// dialog title and message already composed.
type ValidationError struct {
	Title   string
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

func fieldValue(datos FormData, id string) string {
	return strings.TrimSpace(datos[id])
}

// ValidateStep checks one step against the schema. A nil error means the
// wizard may advance.
func ValidateStep(step int, servicio Service, datos FormData) error {
	if step == StepServicio {
		if servicio == "" {
			return &ValidationError{
				Title:   "Servicio requerido",
				Message: "Selecciona un tipo de servicio para continuar.",
			}
		}
		return nil
	}

	var missing []string
	for _, f := range StepFields(step, servicio) {
		v := fieldValue(datos, f.ID)
		if v == "" || (f.Valid != nil && !f.Valid(v)) {
			missing = append(missing, f.Label)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	switch step {
	case StepUbicacion:
		return &ValidationError{
			Title:   "Ubicación requerida",
			Message: "Indica tu ubicación: " + strings.Join(missing, ", ") + ".",
			Fields:  missing,
		}
	case StepContacto:
		return &ValidationError{
			Title:   "Datos necesarios",
			Message: "Debes completar: " + strings.Join(missing, ", ") + ".",
			Fields:  missing,
		}
	default:
		return &ValidationError{
			Title:   "Datos requeridos",
			Message: "Completa: " + strings.Join(missing, ", ") + ".",
			Fields:  missing,
		}
	}
}

// ValidatePhone enforces the Colombian mobile format required to finalize
// or send a quotation.
func ValidatePhone(datos FormData) error {
	if !IsValidWhatsAppCO(fieldValue(datos, "telefonoCliente")) {
		return &ValidationError{
			Title:   "Teléfono inválido",
			Message: "Ingresa un teléfono móvil de Colombia válido (empieza por 3 y tiene 10 dígitos).",
			Fields:  []string{fieldLabels["telefonoCliente"]},
		}
	}
	return nil
}

// Wizard holds one quotation session. It lives only while the modal is
// open; Reset brings it back to the state of a fresh open.
type Wizard struct {
	Step              int
	Servicio          Service
	Datos             FormData
	ImageURLs         []string
	ImageURLsBySource map[string][]string
}

func NewWizard() *Wizard {
	w := &Wizard{}
	w.Reset()
	return w
}

func (w *Wizard) Reset() {
	w.Step = StepServicio
	w.Servicio = ""
	w.Datos = FormData{}
	w.ImageURLs = nil
	w.ImageURLsBySource = map[string][]string{
		"reparacion":  nil,
		"instalacion": nil,
	}
}

// SelectService records the choice and jumps straight to the details step,
// mirroring the service-card click behavior.
func (w *Wizard) SelectService(s Service) {
	w.Servicio = s
	w.Step = StepDetalles
}

func (w *Wizard) SetField(id, value string) {
	w.Datos[id] = value
}

func (w *Wizard) SetChecked(id string, checked bool) {
	if checked {
		w.Datos[id] = "1"
	} else {
		w.Datos[id] = ""
	}
}

// Next advances one step when the current one validates. On the summary
// step it behaves as Finalize.
func (w *Wizard) Next() error {
	if w.Step < StepResumen {
		if err := ValidateStep(w.Step, w.Servicio, w.Datos); err != nil {
			return err
		}
		w.Step++
		return nil
	}
	return w.Finalize()
}

// Prev always succeeds; it is a no-op on the first step.
func (w *Wizard) Prev() {
	if w.Step > StepServicio {
		w.Step--
	}
}

// Finalize re-checks contact data plus the phone format. It does not send
// anything: delivery happens only through the explicit WhatsApp or email
// actions.
func (w *Wizard) Finalize() error {
	if err := ValidateStep(StepContacto, w.Servicio, w.Datos); err != nil {
		return err
	}
	return ValidatePhone(w.Datos)
}

// AddImageURLs merges uploaded URLs into the global list and the
// per-source list, dropping duplicates while preserving order.
func (w *Wizard) AddImageURLs(source string, urls []string) {
	w.ImageURLs = appendUnique(w.ImageURLs, urls)
	w.ImageURLsBySource[source] = appendUnique(w.ImageURLsBySource[source], urls)
}

// RemoveImageURL drops a URL from the global list and every source list.
func (w *Wizard) RemoveImageURL(url string) {
	w.ImageURLs = removeURL(w.ImageURLs, url)
	for source, list := range w.ImageURLsBySource {
		w.ImageURLsBySource[source] = removeURL(list, url)
	}
}

func (w *Wizard) Estimate(params Params) Estimate {
	return ComputeEstimate(w.Servicio, w.Datos, params)
}

func appendUnique(current, add []string) []string {
	seen := make(map[string]bool, len(current)+len(add))
	out := make([]string, 0, len(current)+len(add))
	for _, u := range current {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	for _, u := range add {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

func removeURL(list []string, url string) []string {
	out := list[:0]
	for _, u := range list {
		if u != url {
			out = append(out, u)
		}
	}
	return out
}
