package request

import "github.com/user/reel-locator/internal/entity"

type GetLocationRequest struct {
	ReelURL string `json:"reel_url"`
}

type SaveLocationRequest struct {
	InstagramURL string               `json:"instagram_url"`
	LocationData *entity.LocationData `json:"location_data"`
}
