package models

// HealthData reports liveness and whether LEDs can be driven. Status is
// "degraded" when the board exposes no user LEDs.
type HealthData struct {
	Status  string `json:"status" example:"ok" enum:"ok,degraded"`
	Message string `json:"message" example:"4 user LEDs available"`
	LEDs    int    `json:"leds" example:"4" doc:"Number of controllable user LEDs"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/arm" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}
