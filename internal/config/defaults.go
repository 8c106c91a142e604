package config

// Default configuration values.
const (
	DefaultTargetType = "sqlite"
	DefaultLogLevel   = "warn"
	DefaultListen     = "127.0.0.1:8787"
)

var defaultPorts = map[string]int{
	"postgres": 5432,
	"mysql":    3306,
	"mariadb":  3306,
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Type == "" && t.Dialect == "" {
		t.Type = DefaultTargetType
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.DialectName())
	}
	if t.Port == 0 {
		t.Port = defaultPorts[t.Type]
	}
}
