package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPendiente  TicketStatus = "pendiente"
	TicketStatusAsignado   TicketStatus = "asignado"
	TicketStatusEnProgreso TicketStatus = "en_progreso"
	TicketStatusResuelto   TicketStatus = "resuelto"
	TicketStatusCerrado    TicketStatus = "cerrado"
)

// Valid reports whether the status is one of the defined states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPendiente, TicketStatusAsignado, TicketStatusEnProgreso,
		TicketStatusResuelto, TicketStatusCerrado:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels, ordered for display only.
type TicketPriority string

const (
	TicketPriorityBaja    TicketPriority = "baja"
	TicketPriorityMedia   TicketPriority = "media"
	TicketPriorityAlta    TicketPriority = "alta"
	TicketPriorityCritica TicketPriority = "critica"
)

// Valid reports whether the priority is a known level.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityBaja, TicketPriorityMedia, TicketPriorityAlta, TicketPriorityCritica:
		return true
	}
	return false
}

// Rank orders priorities for sorting; higher means more urgent.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityCritica:
		return 4
	case TicketPriorityAlta:
		return 3
	case TicketPriorityMedia:
		return 2
	case TicketPriorityBaja:
		return 1
	}
	return 0
}

// ProblemType enumerates reportable network/telephony problems.
type ProblemType string

const (
	ProblemInternetSinConexion  ProblemType = "internet_sin_conexion"
	ProblemInternetLento        ProblemType = "internet_lento"
	ProblemInternetIntermitente ProblemType = "internet_intermitente"
	ProblemRouterApagado        ProblemType = "router_apagado"
	ProblemRouterConfiguracion  ProblemType = "router_configuracion"
	ProblemRouterWifiDebil      ProblemType = "router_wifi_debil"
	ProblemRouterReinicio       ProblemType = "router_reinicio_constante"
	ProblemFibraSinSenal        ProblemType = "fibra_sin_senal"
	ProblemFibraOntApagado      ProblemType = "fibra_ont_apagado"
	ProblemAdslDesconexiones    ProblemType = "adsl_desconexiones"
	ProblemAdslLento            ProblemType = "adsl_lento"
	ProblemTelefonoSinLinea     ProblemType = "telefono_sin_linea"
	ProblemTelefonoRuido        ProblemType = "telefono_ruido"
	ProblemTelefonoNoRecibe     ProblemType = "telefono_no_recibe"
	ProblemTelefonoNoRealiza    ProblemType = "telefono_no_realiza"
	ProblemTelefonoSpam         ProblemType = "telefono_spam"
	ProblemCableadoDanado       ProblemType = "cableado_danado"
	ProblemCableadoInstalacion  ProblemType = "cableado_instalacion"
	ProblemOtro                 ProblemType = "otro"
)

// ProblemCategory groups problem types for expert matching.
type ProblemCategory string

const (
	CategoryInternet  ProblemCategory = "internet"
	CategoryTelefonia ProblemCategory = "telefonia"
	CategoryGeneral   ProblemCategory = "general"
)

var problemCategories = map[ProblemType]ProblemCategory{
	ProblemInternetSinConexion:  CategoryInternet,
	ProblemInternetLento:        CategoryInternet,
	ProblemInternetIntermitente: CategoryInternet,
	ProblemRouterApagado:        CategoryInternet,
	ProblemRouterConfiguracion:  CategoryInternet,
	ProblemRouterWifiDebil:      CategoryInternet,
	ProblemRouterReinicio:       CategoryInternet,
	ProblemFibraSinSenal:        CategoryInternet,
	ProblemFibraOntApagado:      CategoryInternet,
	ProblemAdslDesconexiones:    CategoryInternet,
	ProblemAdslLento:            CategoryInternet,
	ProblemTelefonoSinLinea:     CategoryTelefonia,
	ProblemTelefonoRuido:        CategoryTelefonia,
	ProblemTelefonoNoRecibe:     CategoryTelefonia,
	ProblemTelefonoNoRealiza:    CategoryTelefonia,
	ProblemTelefonoSpam:         CategoryTelefonia,
	ProblemCableadoDanado:       CategoryGeneral,
	ProblemCableadoInstalacion:  CategoryGeneral,
	ProblemOtro:                 CategoryGeneral,
}

// Valid reports whether the problem type is known.
func (t ProblemType) Valid() bool {
	_, ok := problemCategories[t]
	return ok
}

// Category returns the matching group for the problem type.
func (t ProblemType) Category() ProblemCategory {
	if cat, ok := problemCategories[t]; ok {
		return cat
	}
	return CategoryGeneral
}

// Ticket is the aggregate for reported problems. Reporter and expert are
// referenced by id only; display data is joined at the read boundary.
type Ticket struct {
	ID              string
	ExternalKey     string
	Title           string
	Description     string
	ProblemType     ProblemType
	Priority        TicketPriority
	Status          TicketStatus
	ReporterID      string
	AssignedExpert  *string
	AssignedBy      *string
	City            string
	Address         string
	ServiceProvider *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AssignedAt      *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
}
