package models

import "fmt"

// CampaignParams are the ad-platform query parameters appended to a redirect link.
// Absent parameters stay nil and are stored as NULL.
type CampaignParams struct {
	Pixel          *string `form:"pixel"`
	CampaignID     *string `form:"campaign_id"`
	AdsetID        *string `form:"adset_id"`
	AdID           *string `form:"ad_id"`
	CampaignName   *string `form:"campaign_name"`
	AdsetName      *string `form:"adset_name"`
	AdName         *string `form:"ad_name"`
	Placement      *string `form:"placement"`
	SiteSourceName *string `form:"site_source_name"`
	Fbclid         *string `form:"fbclid"`
}

// Attribution is the row written for every successful redirect.
type Attribution struct {
	CampaignParams

	UniqueIdentifier string // visit id
	ChannelJoinLink  string
	SourceIdentifier string
	IPAddress        string
	UserAgent        string
}

// Validate reports the first required column that is empty.
func (a Attribution) Validate() error {
	switch {
	case a.UniqueIdentifier == "":
		return fmt.Errorf("%w: unique_identifier", ErrMissingField)
	case a.ChannelJoinLink == "":
		return fmt.Errorf("%w: channel_join_link", ErrMissingField)
	case a.SourceIdentifier == "":
		return fmt.Errorf("%w: source_identifier", ErrMissingField)
	}
	return nil
}
