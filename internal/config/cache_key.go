package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key pinning a user's active login JTI.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// ShareTokenKey returns the cache key for a public question share token.
func (r *CacheKeyStruct) ShareTokenKey(token string) string {
	return fmt.Sprintf("share:%s", token)
}

// ExamConfigListKey returns the cache key for the exam configuration listing.
func (r *CacheKeyStruct) ExamConfigListKey() string {
	return "exam_configs:list"
}

var CacheKey = NewCacheKeyStruct()
