package entity

type Engine string

const (
	EngineRod        Engine = "rod"
	EnginePlaywright Engine = "playwright"
)

type BrowserProfile struct {
	Name           string `yaml:"name"`
	Engine         Engine `yaml:"engine"`
	Browser        string `yaml:"browser"`
	Headless       bool   `yaml:"headless"`
	SlowMotionMS   int    `yaml:"slow_motion_ms"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`
	NoSandbox      bool   `yaml:"no_sandbox"`
}
