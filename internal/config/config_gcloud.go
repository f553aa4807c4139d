//go:build gcloud

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func (c *TaskQueueConfig) Validate() error {
	var errs []error

	if c.GCloudProjectID == "" {
		errs = append(errs, errors.New("GCLOUD_PROJECT_ID is required"))
	}
	if c.GCloudLocationID == "" {
		errs = append(errs, errors.New("GCLOUD_LOCATION_ID is required"))
	}
	if c.GCloudQueueID == "" {
		errs = append(errs, errors.New("GCLOUD_QUEUE_ID is required"))
	}

	switch {
	case c.GCloudTargetURL == "":
		errs = append(errs, errors.New("GCLOUD_TARGET_URL is required"))
	default:
		// Cloud Tasks only delivers HTTP tasks to HTTPS targets.
		if u, err := url.Parse(c.GCloudTargetURL); err != nil || !strings.EqualFold(u.Scheme, "https") {
			errs = append(errs, errors.New("GCLOUD_TARGET_URL must be an https URL"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("task queue configuration errors: %w", errors.Join(errs...))
	}

	return nil
}
