package background

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/starvoid/AcerRGB/util"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultAPI = "https://api.github.com"

// VersionChecker periodically compares the running version with the latest
// GitHub release of repo
type VersionChecker struct {
	current  *semver.Version
	repo     string
	api      string
	interval time.Duration
	tick     chan time.Time
	notifier chan<- util.Notification
}

type release struct {
	TagName string `json:"tag_name"`
}

func NewVersionCheck(current string, repo string, interval time.Duration, notifier chan<- util.Notification) (*VersionChecker, error) {
	sem, err := semver.NewVersion(current)
	if err != nil {
		return nil, errors.Wrap(err, "[VersionChecker] invalid current version")
	}
	if repo == "" {
		return nil, errors.New("[VersionChecker] empty repo is invalid")
	}
	if interval <= 0 {
		interval = time.Hour * 6
	}
	tick := make(chan time.Time, 1)
	tick <- time.Now()

	return &VersionChecker{
		current:  sem,
		repo:     repo,
		api:      defaultAPI,
		interval: interval,
		tick:     tick,
		notifier: notifier,
	}, nil
}

func (v *VersionChecker) String() string {
	return "VersionChecker"
}

func (v *VersionChecker) Serve(haltCtx context.Context) error {
	log.Info().Msg("[VersionChecker] starting checker loop")

	go func() {
		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				select {
				case v.tick <- t:
				default:
				}
			case <-haltCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-haltCtx.Done():
			log.Info().Msg("[VersionChecker] stopping checker loop")
			return nil
		case <-v.tick:
			log.Debug().Msg("[VersionChecker] checking for new version")
			latest, err := v.getLatest(haltCtx)
			if err != nil {
				log.Warn().Err(err).Msg("[VersionChecker] error checking for new version")
				continue
			}
			if !latest.GreaterThan(v.current) {
				continue
			}
			log.Info().Msgf("[VersionChecker] new version found: %s", latest.String())
			if v.notifier == nil {
				continue
			}
			select {
			case v.notifier <- util.Notification{
				Title:   "New Version Available",
				Message: fmt.Sprintf("A new version of AcerRGB is available: %s", latest.String()),
			}:
			case <-haltCtx.Done():
				return nil
			}
		}
	}
}

func (v *VersionChecker) getLatest(ctx context.Context) (*semver.Version, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", v.api, v.repo)
	client := http.Client{
		Timeout: time.Second * 5,
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, getErr := client.Do(req)
	if getErr != nil {
		return nil, getErr
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", res.StatusCode)
	}

	var r release
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	return semver.NewVersion(r.TagName)
}
