package model

// VersionInfo contains version information for the dashboard and its local store.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	DbVersion  string `json:"db_version"`
	APIBase    string `json:"api_base"`
}
