package settings

import "github.com/rogerio-castellano/stocktrack/internal/models"

const (
	KeyCompanyName        = "empresa_nombre"
	KeyLowStockAlerts     = "sistema_alerta_stock_minimo"
	KeyEmailNotifications = "sistema_notificaciones_email"
	KeyQRBaseURL          = "qr_base_url"
	KeyExcessLimit        = "inventario_limite_exceso"
	KeyOverdueDays        = "inventario_dias_alerta_vencida"
)

const (
	DefaultQRBaseURL   = "https://stocktrack.app"
	DefaultExcessLimit = 1000
	DefaultOverdueDays = 7
)

// Groups are the key prefixes exposed as setting groups.
var Groups = []string{"empresa_", "sistema_", "notificacion_", "qr_", "inventario_"}

type defaultSetting struct {
	key         string
	value       string
	typ         models.SettingType
	description string
}

var defaults = []defaultSetting{
	{KeyCompanyName, "StockTrack", models.SettingString, "Nombre de la empresa"},
	{"empresa_direccion", "Dirección de la empresa", models.SettingString, "Dirección de la empresa"},
	{"empresa_telefono", "01-234-5678", models.SettingString, "Teléfono de la empresa"},
	{"empresa_email", "info@stocktrack.com", models.SettingString, "Email de la empresa"},

	{KeyLowStockAlerts, "true", models.SettingBoolean, "Activar alertas de stock mínimo"},
	{KeyEmailNotifications, "true", models.SettingBoolean, "Activar notificaciones por email"},
	{"sistema_backup_automatico", "true", models.SettingBoolean, "Activar backup automático"},
	{"sistema_idioma", "es", models.SettingString, "Idioma del sistema"},
	{"sistema_formato_fecha", "dd/mm/yyyy", models.SettingString, "Formato de fecha"},
	{"sistema_zona_horaria", "America/Lima", models.SettingString, "Zona horaria del sistema"},

	{KeyQRBaseURL, DefaultQRBaseURL, models.SettingString, "URL base para códigos QR"},

	{KeyExcessLimit, "1000", models.SettingNumber, "Límite para alertas de exceso de stock"},
	{KeyOverdueDays, "7", models.SettingNumber, "Días para considerar una alerta como vencida"},
}
