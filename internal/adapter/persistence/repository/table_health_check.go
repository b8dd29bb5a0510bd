package repository

import (
	"context"
	"fmt"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type TableDescriber interface {
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

var _ TableDescriber = (*dynamodb.Client)(nil)

// TableHealthCheck reports ok when every table exists and is ACTIVE.
type TableHealthCheck struct {
	ddb    TableDescriber
	tables []string
}

var _ interfaces.IHealthCheck = (*TableHealthCheck)(nil)

func NewTableHealthCheck(ddb TableDescriber, tables ...string) *TableHealthCheck {
	return &TableHealthCheck{ddb: ddb, tables: tables}
}

func (h *TableHealthCheck) Check(ctx context.Context) entities.HealthStatus {
	for _, table := range h.tables {
		out, err := h.ddb.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
		if err != nil {
			return entities.Unhealthy(fmt.Errorf("describe table %s: %w", table, err))
		}
		if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
			status := "unknown"
			if out.Table != nil {
				status = string(out.Table.TableStatus)
			}
			return entities.Unhealthy(fmt.Errorf("table %s is %s", table, status))
		}
	}
	return entities.Healthy()
}
