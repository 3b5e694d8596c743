package models

// SystemdUnitStatus is the state of the unit running bbled.
type SystemdUnitStatus struct {
	Unit  string `json:"unit" example:"bbled.service" doc:"systemd unit name"`
	State string `json:"state" example:"active" doc:"ActiveState (active, inactive, failed, etc.)"`
}

type SystemdUnitStatusResponse struct {
	Body SystemdUnitStatus
}

// SystemdUnitAction contains the result of a unit action.
type SystemdUnitAction struct {
	Unit    string `json:"unit" example:"bbled.service" doc:"systemd unit name"`
	Action  string `json:"action" example:"restart" doc:"Action performed"`
	Success bool   `json:"success" example:"true" doc:"Whether the job was queued"`
}

type SystemdUnitActionResponse struct {
	Body SystemdUnitAction
}
