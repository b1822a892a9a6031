package meeting

import "time"

// UploadRequest carries the optional form fields of an artifact upload. The
// artifact itself arrives as the multipart "file" part, credentials as
// headers.
type UploadRequest struct {
	MeetingDate string `form:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
}

// ParsedDate returns the meeting date, or the zero time when the caller left
// it out.
func (r *UploadRequest) ParsedDate() (time.Time, error) {
	if r.MeetingDate == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", r.MeetingDate)
}

// ListRequest carries pagination for the record listing.
type ListRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}
