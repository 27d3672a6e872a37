package constants

const (
	CookieKeySession = "xformreports_session"

	SessionKeyStartDate = "start_date"
	SessionKeyEndDate   = "end_date"

	CtxKeySession = "session"

	LocationTypeDistrict = "district"
	AnswerTypeDistrict   = "district"
)

// Viper keys.
const (
	ViperHTTPAddrKey            = "http.addr"
	ViperHTTPAllowOriginsKey    = "http.allow_origins"
	ViperDBURLKey               = "db.url"
	ViperSecretKey              = "session.secret"
	ViperSessionTTLKey          = "session.ttl"
	ViperLogLevelKey            = "log.level"
	ViperCountryCallingCodeKey  = "country.calling_code"
	ViperBackendPrefixesKey     = "backends.prefixes"
	ViperDistrictCutoffKey      = "district.cutoff"
	ViperExportMaxSheetRowsKey  = "export.max_sheet_rows"
	ViperExportEncodingKey      = "export.encoding"
	ViperMessageApplicationsKey = "messages.applications"
)
