package models

// LEDState is the requested behavior of one LED. It is shared by the HTTP API,
// the profile file and bus events.
type LEDState struct {
	Pattern    string `json:"pattern" toml:"pattern" example:"blink" doc:"LED pattern: off, on, blink or heartbeat"`
	Brightness uint8  `json:"brightness,omitempty" toml:"brightness,omitempty" example:"1" doc:"Brightness for the on pattern (0 means full on)"`
	DelayOnMs  uint32 `json:"delay_on_ms,omitempty" toml:"delay_on_ms,omitempty" example:"500" doc:"Blink on time in milliseconds (0 means 500)"`
	DelayOffMs uint32 `json:"delay_off_ms,omitempty" toml:"delay_off_ms,omitempty" example:"500" doc:"Blink off time in milliseconds (0 means 500)"`
}

// LEDStatus describes one LED as read from the device.
type LEDStatus struct {
	Name    string `json:"name" example:"usr0" doc:"Board LED name"`
	Path    string `json:"path,omitempty" example:"/sys/class/leds/beaglebone:green:usr0" doc:"Control-file directory"`
	Trigger string `json:"trigger,omitempty" example:"heartbeat" doc:"Active kernel trigger"`
	Error   string `json:"error,omitempty" doc:"Why the trigger could not be read"`
}

type LEDStatusResponse struct {
	Body LEDStatus
}

type LEDListData struct {
	LEDs  []LEDStatus `json:"leds" doc:"User LEDs with their live trigger"`
	Count int         `json:"count" example:"4" doc:"Number of LEDs"`
}

type LEDListResponse struct {
	Body LEDListData
}

// LEDCapabilitiesData lists what the current board supports.
type LEDCapabilitiesData struct {
	AvailableTypes    []string `json:"available_types" doc:"List of available LED names on this board"`
	AvailablePatterns []string `json:"available_patterns" doc:"List of available LED patterns on this board"`
}

type LEDCapabilitiesResponse struct {
	Body LEDCapabilitiesData
}

// LEDSetData echoes an applied state.
type LEDSetData struct {
	Name      string   `json:"name" example:"usr0" doc:"Board LED name"`
	State     LEDState `json:"state" doc:"Applied state"`
	Persisted bool     `json:"persisted" doc:"Whether the state was saved to the profile"`
}

type LEDSetResponse struct {
	Body LEDSetData
}
