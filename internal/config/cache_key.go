package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's student-facing payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// QuizResultsChannel returns the Redis PubSub channel name carrying graded
// attempts for a quiz's live result stream.
func (r *CacheKeyStruct) QuizResultsChannel(quizID string) string {
	return fmt.Sprintf("quiz:%s:results", quizID)
}

var CacheKey = NewCacheKeyStruct()
