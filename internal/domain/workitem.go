package domain

// OptimizationParams carries the mesh optimization settings the plug-in reads
// from its inline JSON argument. Field names match the plug-in contract.
type OptimizationParams struct {
	VertexPercents []string `json:"VertexPercents"`
	KeepNormals    bool     `json:"KeepNormals"`
	CollapseStack  bool     `json:"CollapseStack"`
}

// WorkItemArgument binds one activity parameter to a concrete source or sink.
// URL may be an object-store location or an inline data URL; Verb is "get" for
// inputs and "put" for outputs.
type WorkItemArgument struct {
	URL     string            `json:"url"`
	Verb    string            `json:"verb,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// CallbackSpec tells the automation service where to POST on completion
type CallbackSpec struct {
	Verb string `json:"verb"`
	URL  string `json:"url"`
}

// WorkItemSpec is one execution request for a registered activity.
// Immutable once submitted.
type WorkItemSpec struct {
	ActivityID string                      `json:"activityId"`
	Arguments  map[string]WorkItemArgument `json:"arguments"`
	OnComplete CallbackSpec                `json:"-"`
}

// ActivityParameter describes one parameter slot of an activity definition
type ActivityParameter struct {
	Description string `json:"description,omitempty"`
	LocalName   string `json:"localName"`
	OnDemand    bool   `json:"ondemand"`
	Required    bool   `json:"required"`
	Verb        string `json:"verb"`
	Zip         bool   `json:"zip"`
}

// ActivitySetting carries an inline settings payload (e.g. a script) embedded
// in the activity definition
type ActivitySetting struct {
	Value string `json:"value"`
}

// ActivitySpec is a job template binding an engine, an app bundle, a command
// line and a parameter/settings schema
type ActivitySpec struct {
	ID          string                       `json:"id"`
	Engine      string                       `json:"engine"`
	CommandLine []string                     `json:"commandLine"`
	AppBundles  []string                     `json:"appbundles"`
	Parameters  map[string]ActivityParameter `json:"parameters"`
	Settings    map[string]ActivitySetting   `json:"settings,omitempty"`
	Description string                       `json:"description,omitempty"`
}

// AppBundleVersion is the automation service's answer to a bundle
// create/update: the new version number plus the upload target for the archive
type AppBundleVersion struct {
	Version      int
	UploadURL    string
	UploadFields map[string]string
}
