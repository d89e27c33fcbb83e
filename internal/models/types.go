package models

import "time"

type Credential struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

type BucketDescriptor struct {
	Name         string    `json:"name"`
	Region       string    `json:"region"`
	CreationDate time.Time `json:"creation_date"`
}

type BucketInfo struct {
	BucketName     string `json:"bucket_name"`
	Region         string `json:"region"`
	ObjectCount    int64  `json:"object_count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	TotalSizeHuman string `json:"total_size_human"`
	APIEndpoint    string `json:"api_endpoint,omitempty"`
}

type BucketList struct {
	Buckets []BucketDescriptor `json:"buckets"`
	Count   int                `json:"count"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
