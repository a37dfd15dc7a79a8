package model

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRevision SubmissionStatus = "revision"
	SubmissionFailed   SubmissionStatus = "failed"
)

// ReviewOutcome 评审结论，与提交状态共用取值（pending 除外）
type ReviewOutcome = SubmissionStatus

type Submission struct {
	BaseModel
	UserID        uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	ModuleID      uint             `gorm:"index;type:bigint unsigned;not null" json:"moduleId"`
	Content       string           `gorm:"type:text" json:"content"`
	AttachmentURL string           `gorm:"size:512" json:"attachmentUrl"`
	Status        SubmissionStatus `gorm:"type:varchar(32);default:'pending'" json:"status"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Review 对单个提交的一次评审，1:1
type Review struct {
	BaseModel
	SubmissionID uint   `gorm:"type:bigint unsigned;not null;uniqueIndex" json:"submissionId"`
	ReviewerID   uint   `gorm:"index;type:bigint unsigned;not null" json:"reviewerId"`
	Score        int    `gorm:"default:0" json:"score"` // 0..10
	Feedback     string `gorm:"type:text" json:"feedback"`
}

func (Review) TableName() string {
	return "reviews"
}
