package store

import (
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *JobQueryFilter) ByOrgID(orgID string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return qf
}

func (qf *JobQueryFilter) ByUsername(username string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("username = ?", username)
	})
	return qf
}

func (qf *JobQueryFilter) ByStatus(status string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

type WorkItemQueryFilter BaseQuerier

func NewWorkItemQueryFilter() *WorkItemQueryFilter {
	return &WorkItemQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *WorkItemQueryFilter) ByItemType(itemType string) *WorkItemQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("item_type = ?", itemType)
	})
	return qf
}

// ByRefKeyPrefix isolates overlay namespaces that share a job but use a
// distinct key prefix.
func (qf *WorkItemQueryFilter) ByRefKeyPrefix(prefix string) *WorkItemQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("ref_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	})
	return qf
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
