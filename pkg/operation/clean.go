// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🧹 CleanOperation removes clone directories and expired cache entries
type CleanOperation struct {
	BaseOperation
	Removed int // cache entries dropped by the last Execute
}

// 🧹 NewCleanOperation creates a new clean operation
func NewCleanOperation(opts Options) *CleanOperation {
	return &CleanOperation{
		BaseOperation: NewBaseOperation(opts),
	}
}

// 🏃 Execute runs the clean operation
func (op *CleanOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if op.Cloner != nil {
		if err := op.Cloner.Cleanup(ctx); err != nil {
			return errors.Errorf("cleaning clones: %w", err)
		}
	}

	if op.Cache != nil {
		removed, err := op.Cache.Cleanup(ctx)
		if err != nil {
			return errors.Errorf("cleaning cache: %w", err)
		}
		op.Removed = removed
	}

	logger.Info().Str("run_id", op.RunID).Int("cache_removed", op.Removed).Msg("clean complete")
	return nil
}
