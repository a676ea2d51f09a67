package dto

import (
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// JSONCase is the nested case object attached to a file hit.
type JSONCase struct {
	SubmitterID string `json:"submitter_id"`
}

// JSONFile represents one file hit from the GDC /files endpoint.
type JSONFile struct {
	FileID               string     `json:"file_id"`
	FileName             string     `json:"file_name"`
	MD5Sum               string     `json:"md5sum"`
	CaseID               string     `json:"case_id"`
	FileSize             int64      `json:"file_size"`
	DataFormat           string     `json:"data_format"`
	ExperimentalStrategy string     `json:"experimental_strategy"`
	Cases                []JSONCase `json:"cases"`
}

// ToFileRecord converts a file hit to a model.FileRecord.
//
// The submitter identifier is taken from the first associated case;
// files can technically list several cases but slide images never do.
func (jf *JSONFile) ToFileRecord() model.FileRecord {
	rec := model.FileRecord{
		FileID:               jf.FileID,
		FileName:             jf.FileName,
		MD5Sum:               jf.MD5Sum,
		CaseID:               jf.CaseID,
		Size:                 jf.FileSize,
		Format:               jf.DataFormat,
		ExperimentalStrategy: jf.ExperimentalStrategy,
	}
	if len(jf.Cases) > 0 {
		rec.SubmitterID = jf.Cases[0].SubmitterID
	}
	return rec
}
