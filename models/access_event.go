// api/internal/models/access_event.go
package models

import "time"

// AccessEvent is one page hit read back from the access-log store.
// Optional columns that the store's schema lacks come back as empty strings.
// RequestURI stays a pointer because a NULL URI drops the row entirely,
// while an empty-but-present URI is normalised to "(unknown)" downstream.
type AccessEvent struct {
	RequestURI    *string   `json:"requestUri"`
	AccessedAt    time.Time `json:"accessedAt"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	Referer       string    `json:"referer"`
	DeviceType    string    `json:"deviceType"`
	TrafficSource string    `json:"trafficSource"`
	Country       string    `json:"country"`
	Region        string    `json:"region"`
	SessionID     string    `json:"sessionId"`
}

// AccessLogRecord is a fully populated row ready for insertion into the
// access-log store. The track handler stamps RecordID, IPAddress and a
// missing AccessedAt before handing records to the store.
type AccessLogRecord struct {
	RecordID      string    `json:"recordId"`
	RequestURI    string    `json:"requestUri"`
	AccessedAt    time.Time `json:"accessedAt"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	Referer       string    `json:"referer"`
	DeviceType    string    `json:"deviceType"`
	TrafficSource string    `json:"trafficSource"`
	Country       string    `json:"country"`
	Region        string    `json:"region"`
	SessionID     string    `json:"sessionId"`
}
