package main

import (
	"github.com/reoring/fwconf"
	"github.com/reoring/fwconf/cv"
)

var (
	componentType = fwconf.NewType("Component")
	sensorType    = fwconf.NewType("sensor::Sensor", componentType)
	filterType    = fwconf.NewType("sensor::Filter")
)

var filterRegistry = cv.NewRegistry(nil).
	Register("offset", cv.Float, filterType).
	Register("multiply", cv.Float, filterType).
	Register("throttle", cv.PositiveTimePeriodMilliseconds, filterType).
	Register("sliding_window_moving_average", cv.Schema(
		cv.Optional("window_size", cv.PositiveNotNullInt).Default(15),
		cv.Optional("send_every", cv.PositiveNotNullInt).Default(15),
	), filterType).
	Register("lambda", cv.ReturningLambda, filterType)

func sensorBase() *cv.SchemaValidator {
	return cv.Schema(
		cv.GenerateID(cv.DeclareID(sensorType)),
		cv.Required("name", cv.String),
		cv.Optional("icon", cv.Icon),
		cv.Optional("unit_of_measurement", cv.StringStrict),
		cv.Optional("accuracy_decimals", cv.IntRange(-3, 6)),
		cv.Optional("update_interval", cv.UpdateInterval).Default("60s").ValidateDefault(),
		cv.Optional("state_topic", cv.All(cv.RequiresComponent("mqtt"), cv.PublishTopic)),
		cv.Optional("filters", cv.ValidateRegistry("filter", filterRegistry)),
	)
}

var sensorPlatforms = cv.TypedSchema(map[string]fwconf.Validator{
	"adc": sensorBase().Extend(
		cv.Required("pin", cv.IntRange(0, 39)),
		cv.Optional("attenuation", cv.All(cv.OnlyOn("esp32"), cv.OneOf("0db", "2.5db", "6db", "11db", "auto").Lower())),
		cv.Optional("raw", cv.Boolean).Default(false),
	),
	"template": sensorBase().Extend(
		cv.Optional("lambda", cv.ReturningLambda),
	),
	"copy": sensorBase().Extend(
		cv.Required("source_id", cv.UseID(sensorType)),
	),
	"dht": sensorBase().Extend(
		cv.Required("pin", cv.IntRange(0, 39)),
		cv.Optional("model", cv.OneOf("AUTO_DETECT", "DHT11", "DHT22", "AM2302").Upper().Space("_")).Default("AUTO_DETECT"),
	),
}).Key("platform").Lower()

var wifiNetwork = cv.Schema(
	cv.Required("ssid", cv.SSID),
	cv.Optional("password", cv.All(cv.StringStrict, cv.Length(0, 64))),
	cv.Optional("priority", cv.Float).Default(0.0),
)

var wifiSchema = cv.Schema(
	cv.Optional("ssid", cv.SSID),
	cv.Optional("password", cv.All(cv.StringStrict, cv.Length(0, 64))),
	cv.Optional("networks", cv.EnsureList(wifiNetwork)),
	cv.Optional("domain", cv.DomainName).Default(".local"),
	cv.Optional("manual_ip", cv.Schema(
		cv.Required("static_ip", cv.IPv4),
		cv.Required("gateway", cv.IPv4),
		cv.Required("subnet", cv.IPv4),
	)),
	cv.Optional("reboot_timeout", cv.PositiveTimePeriodMilliseconds).Default("15min").ValidateDefault(),
).AddExtra(cv.HasAtMostOneKey("ssid", "networks"))

var loggerSchema = cv.Schema(
	cv.Optional("level", cv.OneOf("NONE", "ERROR", "WARN", "INFO", "DEBUG", "VERBOSE", "VERY_VERBOSE").Upper()).Default("DEBUG"),
	cv.Optional("baud_rate", cv.PositiveInt).Default(115200),
	cv.Optional("logs", cv.Dict(cv.String, cv.OneOf("NONE", "ERROR", "WARN", "INFO", "DEBUG", "VERBOSE", "VERY_VERBOSE").Upper())),
).NullAsEmpty()

var mqttSchema = cv.Schema(
	cv.Required("broker", cv.String),
	cv.Optional("port", cv.Port).Default(1883),
	cv.Optional("username", cv.String).Default(""),
	cv.Optional("password", cv.String).Default(""),
	cv.Optional("topic_prefix", cv.PublishTopic),
	cv.Optional("keepalive", cv.PositiveTimePeriodSeconds).Default("15s").ValidateDefault(),
	cv.Optional("qos", cv.MQTTQoS).Default(0),
)

var deviceSchema = cv.Schema(
	cv.Required("name", cv.ValidName),
	cv.Optional("friendly_name", cv.String),
	cv.Optional("platform", cv.OneOf("esp32", "esp8266", "rp2040", "bk72xx").Lower()).Default("esp32"),
	cv.Optional("min_version", cv.VersionNumber),
	cv.Optional("on_boot", cv.LambdaExpr),
)

// coreSchema is the top-level document schema the CLI checks against.
var coreSchema = cv.Schema(
	cv.Required("esphome", deviceSchema),
	cv.Optional("logger", loggerSchema),
	cv.Optional("wifi", wifiSchema),
	cv.Optional("mqtt", mqttSchema),
	cv.Optional("sensor", cv.EnsureList(sensorPlatforms)),
)

// deviceSummary is what the CLI reports about a valid document.
type deviceSummary struct {
	Device struct {
		Name         string `config:"name"`
		FriendlyName string `config:"friendly_name"`
		Platform     string `config:"platform"`
	} `config:"esphome"`
	Logger struct {
		Level string `config:"level"`
	} `config:"logger"`
	Sensors []struct {
		ID       *fwconf.ID `config:"id"`
		Platform string     `config:"platform"`
		Name     string     `config:"name"`
	} `config:"sensor"`
}
