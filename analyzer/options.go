// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package analyzer

import (
	"log/slog"

	"fillmore-labs.com/transferguard/internal/config"
	"fillmore-labs.com/transferguard/internal/run"
)

// Option configures specific behavior of a [New] transferguard analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithTransfer is an [Option] to configure whether use after transfer checks are enabled.
func WithTransfer(transfer bool) Option { return transferOption{transfer: transfer} }

type transferOption struct{ transfer bool }

func (o transferOption) apply(r *run.Options) {
	r.Analyzers.Set(config.TransferAnalyzer, o.transfer)
}

func (o transferOption) LogAttr() slog.Attr {
	return slog.Bool("transfer", o.transfer)
}

// WithLockScope is an [Option] to configure whether lock scope checks are enabled.
func WithLockScope(lockScope bool) Option { return lockScopeOption{lockScope: lockScope} }

type lockScopeOption struct{ lockScope bool }

func (o lockScopeOption) apply(r *run.Options) {
	r.Analyzers.Set(config.LockScopeAnalyzer, o.lockScope)
}

func (o lockScopeOption) LogAttr() slog.Attr {
	return slog.Bool("lockscope", o.lockScope)
}

// WithGlobals is an [Option] to report transfers of values derived from package-level variables.
func WithGlobals(globals bool) Option { return globalsOption{globals: globals} }

type globalsOption struct{ globals bool }

func (o globalsOption) apply(r *run.Options) {
	r.Behavior.Set(config.TrackGlobals, o.globals)
}

func (o globalsOption) LogAttr() slog.Attr {
	return slog.Bool("globals", o.globals)
}

// WithSend is an [Option] to configure whether channel sends transfer the sent value.
func WithSend(send bool) Option { return sendOption{send: send} }

type sendOption struct{ send bool }

func (o sendOption) apply(r *run.Options) {
	r.Behavior.Set(config.TransferOnSend, o.send)
}

func (o sendOption) LogAttr() slog.Attr {
	return slog.Bool("send", o.send)
}

// WithSyncPoints is an [Option] adding functions that wait for spawned goroutines,
// given by full name like "(*example.com/pool.Pool).Wait".
func WithSyncPoints(names ...string) Option { return syncPointsOption{names: names} }

type syncPointsOption struct{ names []string }

func (o syncPointsOption) apply(r *run.Options) {
	r.SyncPoints = append(r.SyncPoints, o.names...)
}

func (o syncPointsOption) LogAttr() slog.Attr {
	return slog.Any("sync-points", o.names)
}

// WithTransferringFunctions is an [Option] adding functions that run their function
// arguments on another goroutine, given by full name like "(*example.com/pool.Pool).Submit".
func WithTransferringFunctions(names ...string) Option { return transferringOption{names: names} }

type transferringOption struct{ names []string }

func (o transferringOption) apply(r *run.Options) {
	r.TransferringFunctions = append(r.TransferringFunctions, o.names...)
}

func (o transferringOption) LogAttr() slog.Attr {
	return slog.Any("transferring-functions", o.names)
}

// WithConfigFile is an [Option] reading additional settings from a YAML file.
func WithConfigFile(name string) Option { return configFileOption{name: name} }

type configFileOption struct{ name string }

func (o configFileOption) apply(r *run.Options) {
	r.ConfigFile = o.name
}

func (o configFileOption) LogAttr() slog.Attr {
	return slog.String("config", o.name)
}

// WithLogger is an [Option] to receive debug logs.
func WithLogger(logger *slog.Logger) Option { return loggerOption{logger: logger} }

type loggerOption struct{ logger *slog.Logger }

func (o loggerOption) apply(r *run.Options) {
	r.Logger = o.logger
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.logger != nil)
}
