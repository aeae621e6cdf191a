package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ProductDB struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Content   string    `bun:"content,notnull" json:"content"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type CheckpointDB struct {
	bun.BaseModel `bun:"table:pipeline_checkpoints,alias:cp"`

	ThreadID  string         `bun:"thread_id,pk" json:"thread_id"`
	State     *PipelineState `bun:"state,type:jsonb" json:"state"`
	UpdatedAt time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
