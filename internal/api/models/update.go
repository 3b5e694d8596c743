package models

import "time"

// UpdateCheckData describes the latest release relative to the running binary.
type UpdateCheckData struct {
	CurrentVersion  string    `json:"current_version" example:"v0.3.0" doc:"Running bbled version"`
	LatestVersion   string    `json:"latest_version" example:"v0.4.0" doc:"Latest release on GitHub"`
	ReleaseNotes    string    `json:"release_notes,omitempty" doc:"Markdown release notes, set when an update is available"`
	ReleaseURL      string    `json:"release_url,omitempty" doc:"Release page"`
	PublishedAt     time.Time `json:"published_at,omitzero" doc:"When the release was published"`
	AssetSize       int       `json:"asset_size,omitempty" example:"6291456" doc:"Size of the release binary in bytes"`
	UpdateAvailable bool      `json:"update_available" example:"true"`
}

type UpdateCheckResponse struct {
	Body UpdateCheckData
}

// UpdateStatusData is a snapshot of the updater state machine.
type UpdateStatusData struct {
	State           string     `json:"state" example:"idle" enum:"idle,checking,available,applying,restarting,error,rolled_back"`
	CurrentVersion  string     `json:"current_version" example:"v0.3.0"`
	TargetVersion   string     `json:"target_version,omitempty" example:"v0.4.0" doc:"Release selected by the last check"`
	Error           string     `json:"error,omitempty" doc:"Last failure, set in the error state"`
	LastChecked     *time.Time `json:"last_checked,omitempty"`
	BackupAvailable bool       `json:"backup_available" doc:"Whether rollback is possible"`
	BackupVersion   string     `json:"backup_version,omitempty" example:"v0.3.0"`
}

type UpdateStatusResponse struct {
	Body UpdateStatusData
}

// UpdateActionData acknowledges an apply or rollback. The daemon restarts
// shortly after the response is sent.
type UpdateActionData struct {
	Action  string `json:"action" example:"apply" enum:"apply,rollback"`
	Message string `json:"message" example:"Update applied, restarting"`
	State   string `json:"state" example:"restarting" doc:"Updater state after the action"`
}

type UpdateActionResponse struct {
	Body UpdateActionData
}
