package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RefreshJTIKey returns the cache key tracking a user's active refresh token JTI.
func (r *CacheKeyStruct) RefreshJTIKey(userID string) string {
	return fmt.Sprintf("user:%s:refresh_jti", userID)
}

// JobStatusKey returns the cache key mirroring a job's last known status.
func (r *CacheKeyStruct) JobStatusKey(jobID string) string {
	return fmt.Sprintf("job:%s:status", jobID)
}

// MaterialTextKey returns the cache key for a material's extracted text.
func (r *CacheKeyStruct) MaterialTextKey(materialID string) string {
	return fmt.Sprintf("material:%s:text", materialID)
}

var CacheKey = NewCacheKeyStruct()
