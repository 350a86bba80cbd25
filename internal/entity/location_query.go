package entity

// LocationQuery is the transient state of one pipeline invocation.
type LocationQuery struct {
	ReelURL      string
	Caption      string
	BusinessName string
	Location     string // cleaned address string
}

// SearchText is "{business}, {location}" when a business name is known.
func (q *LocationQuery) SearchText() string {
	if q.BusinessName != "" {
		return q.BusinessName + ", " + q.Location
	}
	return q.Location
}
