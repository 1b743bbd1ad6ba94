package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LibraryBooksKey returns the cache key for the full book catalog
func (r *CacheKeyStruct) LibraryBooksKey() string {
	return "library:books"
}

// QuizIndexKey returns the cache key for the list of quiz summaries
func (r *CacheKeyStruct) QuizIndexKey() string {
	return "quiz:index"
}

// QuizPayloadKey returns the cache key for a quiz's full question set
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

var CacheKey = NewCacheKeyStruct()
