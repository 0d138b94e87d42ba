package workitems

// WorkItemData is the JSON parameter blob sent alongside the uploaded file
type WorkItemData struct {
	Percent       string `json:"percent"`
	KeepNormals   bool   `json:"KeepNormals"`
	CollapseStack bool   `json:"CollapseStack"`
	ActivityName  string `json:"activityName"`
}

// CallbackBody is the completion webhook payload
type CallbackBody struct {
	ReportURL string `json:"reportUrl"`
}
