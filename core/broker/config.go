package broker

// Config holds configuration for the MQTT broker connection.
type Config struct {
	// Host is the broker host. Leave empty to disable event publishing.
	Host string `mapstructure:"host" default:""`
	// Port is the broker port.
	Port int `mapstructure:"port" default:"1883"`
	// User is the broker username.
	User string `mapstructure:"user" default:""`
	// Password is the broker password.
	Password string `mapstructure:"password" default:""`
	// ClientID identifies this service to the broker.
	ClientID string `mapstructure:"client_id" default:"irrigation-manager"`
	// Topic is the topic sync events are published to.
	Topic string `mapstructure:"topic" default:"irrigation/synced"`
}

// Enabled reports whether a broker connection is configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}
