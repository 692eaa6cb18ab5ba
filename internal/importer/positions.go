package importer

import (
	"context"

	"github.com/koltyakov/orgimport/internal/domain"
	"github.com/koltyakov/orgimport/internal/parser"
	"github.com/koltyakov/orgimport/pkg/types"
)

// ImportPositions imports a positions CSV in a single pass. Row construction
// failures are recorded and never stop the batch, whatever SkipOnError says.
func (imp *Importer) ImportPositions(ctx context.Context, content, delimiter string, opts Options) *types.ImportResult {
	rows, err := parser.Parse(content, delimiterOr(delimiter))
	return imp.importPositionRows(ctx, rows, err)
}

func (imp *Importer) importPositionRows(ctx context.Context, rows []types.Row, parseErr error) *types.ImportResult {
	log := imp.logger.WithEntity(string(domain.KindPositions))

	if parseErr != nil {
		log.Error("parse failed: %v", parseErr)
		return failure(parseErr)
	}
	log.Info("importing %d positions", len(rows))

	result := types.Success(0)
	for _, row := range rows {
		pos, err := domain.PositionFromRow(row)
		if err != nil {
			log.Debug("row %d rejected: %v", row.Number, err)
			result.AddError(rowError(row, err))
			result.IncrementFailed()
			continue
		}
		if err := imp.deps.Positions.Save(ctx, pos); err != nil {
			log.Error("save %s failed: %v", pos.Code, err)
			return failure(err)
		}
		result.IncrementImported()
		result.IncrementCount(types.CountPositionsCreated)
	}

	log.Info("positions done: %d imported, %d failed", result.ImportedCount, result.FailedCount)
	return result
}
