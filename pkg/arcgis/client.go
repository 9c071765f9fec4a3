package arcgis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client represents an ArcGIS client with configuration.
type Client struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *log.Logger
}

// NewClient creates a new ArcGIS client with the specified timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Timeout: timeout,
		Logger:  log.Default(),
	}
}

// NormalizeArcGISURL normalizes an ArcGIS URL.
func NormalizeArcGISURL(rawURL string) string {
	lowerURL := strings.ToLower(rawURL)
	isArcGISService := strings.Contains(lowerURL, "/rest/services") || strings.Contains(lowerURL, "/arcgis/rest")

	if !isArcGISService {
		// If it doesn't look like an ArcGIS service URL, only ensure it has a scheme
		u, err := url.Parse(rawURL)
		if err == nil && u.Scheme == "" {
			if strings.Contains(rawURL, ".") && !strings.Contains(rawURL, " ") && !strings.HasPrefix(rawURL, "/") {
				return "https://" + rawURL
			}
		}
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if u.Scheme == "" {
		u.Scheme = "https"
	}

	// Normalize path casing
	pathParts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range pathParts {
		switch strings.ToLower(part) {
		case "arcgis":
			pathParts[i] = "ArcGIS"
		case "rest":
			pathParts[i] = "rest"
		case "services":
			pathParts[i] = "services"
		case "featureserver":
			pathParts[i] = "FeatureServer"
		case "mapserver":
			pathParts[i] = "MapServer"
		}
	}
	if strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + strings.Join(pathParts, "/")
	} else {
		u.Path = strings.Join(pathParts, "/")
	}

	lowerPathEnd := ""
	if len(pathParts) > 0 {
		lowerPathEnd = strings.ToLower(pathParts[len(pathParts)-1])
	}

	// Base service URLs end with a slash, layer URLs don't
	if lowerPathEnd == "mapserver" || lowerPathEnd == "featureserver" {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
	} else if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = u.Path[:len(u.Path)-1]
	}

	q := u.Query()
	q.Del("f")
	u.RawQuery = q.Encode()

	return u.String()
}

// IsValidHTTPURL checks if a URL is a valid HTTP or HTTPS URL.
func IsValidHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SplitLayerURL splits a layer URL such as ".../FeatureServer/3" into the
// service URL and the layer ID.
func SplitLayerURL(layerURL string) (string, string, error) {
	normalized := NormalizeArcGISURL(layerURL)
	u, err := url.Parse(normalized)
	if err != nil {
		return "", "", fmt.Errorf("invalid layer URL %s: %v", layerURL, err)
	}
	i := strings.LastIndex(u.Path, "/")
	if i < 0 {
		return "", "", fmt.Errorf("layer URL %s has no layer ID", layerURL)
	}
	id := u.Path[i+1:]
	if _, err := strconv.Atoi(id); err != nil {
		return "", "", fmt.Errorf("layer URL %s has no numeric layer ID", layerURL)
	}
	u.Path = u.Path[:i]
	u.RawQuery = ""
	return u.String(), id, nil
}

// FetchAndDecode fetches data from a URL and decodes it into the target interface.
func (c *Client) FetchAndDecode(ctx context.Context, urlStr string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %v", urlStr, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if urlErr, ok := err.(*url.Error); ok && urlErr.Timeout() {
			return fmt.Errorf("request timed out fetching data from %s: %v", urlStr, err)
		}
		return fmt.Errorf("failed to fetch data from %s: %v", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-OK HTTP status %d from %s", resp.StatusCode, urlStr)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %v", urlStr, err)
	}

	return nil
}

// FetchLayer fetches the metadata (fields, geometry type, renderer) of one
// layer.
func (c *Client) FetchLayer(ctx context.Context, baseURL, layerID string) (*Layer, error) {
	fetchURL := fmt.Sprintf("%s/%s?f=json", strings.TrimSuffix(baseURL, "/"), layerID)
	c.logger().Debug("fetching layer metadata", "url", fetchURL)

	var layer Layer
	if err := c.FetchAndDecode(ctx, fetchURL, &layer); err != nil {
		return nil, fmt.Errorf("failed to fetch layer metadata: %v", err)
	}
	if layer.Error != nil {
		return nil, fmt.Errorf("layer API error: %s", layer.Error.Message)
	}
	return &layer, nil
}

// FetchFeatures fetches every feature of a FeatureServer layer in WGS84,
// following resultOffset paging while the server reports a transfer limit.
func (c *Client) FetchFeatures(ctx context.Context, baseURL, layerID string) ([]Feature, error) {
	queryURL := fmt.Sprintf("%s/%s/query", strings.TrimSuffix(baseURL, "/"), layerID)
	u, err := url.Parse(queryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid query URL %s: %v", queryURL, err)
	}

	var features []Feature
	for page := 0; page < MaxPages; page++ {
		q := u.Query()
		q.Set("f", "json")
		q.Set("where", "1=1")
		q.Set("outFields", "*")
		q.Set("returnGeometry", "true")
		q.Set("outSR", OutSR)
		if len(features) > 0 {
			q.Set("resultOffset", strconv.Itoa(len(features)))
		}
		u.RawQuery = q.Encode()

		c.logger().Debug("fetching features", "url", u.String(), "page", page)

		var featureResp FeatureResponse
		if err := c.FetchAndDecode(ctx, u.String(), &featureResp); err != nil {
			return nil, fmt.Errorf("feature fetch failed: %v", err)
		}
		if featureResp.Error != nil {
			return nil, fmt.Errorf("feature query API error: %s", featureResp.Error.Message)
		}

		features = append(features, featureResp.Features...)
		if !featureResp.ExceededTransferLimit || len(featureResp.Features) == 0 {
			return features, nil
		}
	}

	c.logger().Warn("feature transfer limit still exceeded, results may be incomplete", "layer", layerID, "features", len(features))
	return features, nil
}

func (c *Client) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}
