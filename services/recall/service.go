package recall

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carvault/config"
	"carvault/models"
	"carvault/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// cacheTTL bounds how long a recall lookup is served from cache. Campaigns
// change rarely, so a day is plenty.
const cacheTTL = 24 * time.Hour

// RecallService looks up open manufacturer recall campaigns for a vehicle.
type RecallService interface {
	GetRecalls(ctx context.Context, make, model string, year int) ([]models.Recall, error)
}

// NHTSARecallService queries the NHTSA recalls API, caching responses in Redis.
type NHTSARecallService struct {
	Client  *http.Client
	BaseURL string
	Cache   *redis.Client
	Logger  *zap.Logger
}

func NewNHTSARecallService() *NHTSARecallService {
	return &NHTSARecallService{
		Client:  &http.Client{Timeout: 15 * time.Second},
		BaseURL: config.AppConfig.RecallAPIBaseURL,
		Cache:   utils.GetCacheClient(),
		Logger:  utils.GetLogger(),
	}
}

// nhtsaResponse is the shape of the recallsByVehicle endpoint payload.
type nhtsaResponse struct {
	Count   int `json:"Count"`
	Results []struct {
		NHTSACampaignNumber string `json:"NHTSACampaignNumber"`
		Manufacturer        string `json:"Manufacturer"`
		Component           string `json:"Component"`
		Summary             string `json:"Summary"`
		Consequence         string `json:"Consequence"`
		Remedy              string `json:"Remedy"`
		ReportReceivedDate  string `json:"ReportReceivedDate"`
	} `json:"results"`
}

// GetRecalls returns recall campaigns for the given make, model and year.
// Results are cached; a cache failure degrades to a live lookup.
func (s *NHTSARecallService) GetRecalls(ctx context.Context, vehicleMake, vehicleModel string, year int) ([]models.Recall, error) {
	if vehicleMake == "" || vehicleModel == "" || year == 0 {
		return nil, fmt.Errorf("recall lookup requires make, model and year")
	}

	key := cacheKey(vehicleMake, vehicleModel, year)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, key).Result(); err == nil {
			var recalls []models.Recall
			if err := json.Unmarshal([]byte(cached), &recalls); err == nil {
				return recalls, nil
			}
		}
	}

	recalls, err := s.fetch(ctx, vehicleMake, vehicleModel, year)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if b, err := json.Marshal(recalls); err == nil {
			if err := s.Cache.Set(ctx, key, b, cacheTTL).Err(); err != nil {
				s.Logger.Warn("Failed to cache recall lookup", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return recalls, nil
}

func (s *NHTSARecallService) fetch(ctx context.Context, vehicleMake, vehicleModel string, year int) ([]models.Recall, error) {
	endpoint := fmt.Sprintf("%s/recalls/recallsByVehicle?make=%s&model=%s&modelYear=%d",
		s.BaseURL, url.QueryEscape(vehicleMake), url.QueryEscape(vehicleModel), year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recall lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recall lookup failed: status %d", resp.StatusCode)
	}

	var payload nhtsaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode recall response: %w", err)
	}

	recalls := make([]models.Recall, 0, len(payload.Results))
	for _, r := range payload.Results {
		recalls = append(recalls, models.Recall{
			CampaignNumber: r.NHTSACampaignNumber,
			Manufacturer:   r.Manufacturer,
			Component:      r.Component,
			Summary:        r.Summary,
			Consequence:    r.Consequence,
			Remedy:         r.Remedy,
			ReportedDate:   r.ReportReceivedDate,
		})
	}
	return recalls, nil
}

func cacheKey(vehicleMake, vehicleModel string, year int) string {
	return fmt.Sprintf("recalls:%s:%s:%d",
		strings.ToLower(vehicleMake), strings.ToLower(vehicleModel), year)
}
