package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/leadscout"
	"gopkg.in/yaml.v3"
)

// Job is a maps run described in a YAML file:
//
//	search_terms: [dentist, orthodontist]
//	location: Austin, TX
//	max_results: 50
//	enrich_contacts: true
//	output: leads.csv
type Job struct {
	SearchTerms    []string `yaml:"search_terms"`
	Location       string   `yaml:"location"`
	MaxResults     int      `yaml:"max_results"`
	BatchSize      int      `yaml:"batch_size"`
	ExtractReviews bool     `yaml:"extract_reviews"`
	ExtractImages  bool     `yaml:"extract_images"`
	EnrichContacts bool     `yaml:"enrich_contacts"`
	VerifyMX       bool     `yaml:"verify_mx"`
	Output         string   `yaml:"output"`
	Format         string   `yaml:"format"`
}

// LoadJob reads and validates a job file. Unknown keys are rejected.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	return ParseJob(data)
}

// ParseJob decodes a YAML job.
func ParseJob(data []byte) (*Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid job file: %v", err)
	}
	if len(job.SearchTerms) == 0 {
		return nil, leadscout.Errorf(leadscout.EINVALID, "job has no search_terms")
	}
	return &job, nil
}

// Input returns the scraper input for the job. Zero fields are omitted so
// scraper defaults apply.
func (j *Job) Input() leadscout.Input {
	in := leadscout.Input{"search_terms": j.SearchTerms}
	if j.Location != "" {
		in["location"] = j.Location
	}
	if j.MaxResults != 0 {
		in["max_results"] = j.MaxResults
	}
	if j.BatchSize != 0 {
		in["batch_size"] = j.BatchSize
	}
	in["extract_reviews"] = j.ExtractReviews
	in["extract_images"] = j.ExtractImages
	in["enrich_contacts"] = j.EnrichContacts
	return in
}

// loadInputFile decodes a YAML or JSON mapping of scraper inputs.
func loadInputFile(path string) (leadscout.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input file: %w", err)
	}
	in := leadscout.Input{}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid input file: %v", err)
	}
	return in, nil
}
