package models

// Preset is a one-tap event template offered to a role.
type Preset struct {
	Label    string    `json:"label" yaml:"label"`
	Type     EventType `json:"type" yaml:"type"`
	Content  string    `json:"content" yaml:"content"`
	Pressure *float64  `json:"pressure,omitempty" yaml:"pressure,omitempty"`
}

// RolePresets are the built-in quick-entry events per role.
var RolePresets = map[Role][]Preset{
	RoleChef: {
		{Label: "Rupture (86)", Type: EventAlert, Content: "CRITICAL: Rupture de stock (86) sur produit clé."},
		{Label: "Retard Bon", Type: EventLog, Content: "DELAY: La cuisine prend du retard."},
		{Label: "Coup de Feu", Type: EventSignal, Content: "Cuisine sous pression MAX.", Pressure: Float(9)},
		{Label: "Ça déroule", Type: EventSignal, Content: "Service fluide en cuisine.", Pressure: Float(4)},
	},
	RoleService: {
		{Label: "Client Difficile", Type: EventAlert, Content: "COMPLAINT: Besoin Manager en salle."},
		{Label: "VIP Installé", Type: EventLog, Content: "VIP à table."},
		{Label: "Table Dressée", Type: EventLog, Content: "Table redressée."},
		{Label: "Dans le Jus", Type: EventSignal, Content: "La salle est débordée.", Pressure: Float(8)},
	},
	RoleManager: {
		{Label: "Coupe Staff", Type: EventLog, Content: "Réduction du personnel (Cut)."},
		{Label: "Incident", Type: EventAlert, Content: "Incident signalé."},
		{Label: "Briefing OK", Type: EventLog, Content: "Briefing équipe effectué."},
		{Label: "Monitoring", Type: EventSignal, Content: "Ronde de contrôle effectuée."},
	},
	RoleOwner: {
		{Label: "Observation", Type: EventLog, Content: "Observation générale."},
		{Label: "Ambiance Top", Type: EventSignal, Content: "Atmosphère excellente."},
	},
}
