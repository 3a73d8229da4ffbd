package http

import "time"

type createReq struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Owner        string                 `json:"owner"`
	Location     string                 `json:"location"`
	AreaHectares *float64               `json:"areaHectares"`
	ProjectType  string                 `json:"projectType"`
	StartDate    *time.Time             `json:"startDate"`
	EndDate      *time.Time             `json:"endDate"`
	Metadata     map[string]interface{} `json:"metadata"`
}
