package glide

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// command is one buffered or script-routed server command. Keys are carried
// separately from the remaining arguments so they can be surfaced through
// KEYS for cluster routing.
type command struct {
	name string
	keys []string
	args []string

	// routing lists keys that appear interleaved inside args (MSET) rather
	// than leading the argv. They join the KEYS union for cluster routing
	// but are not replayed positionally.
	routing []string
}

// callScript generates the single-command script for a command shape:
// "return redis.call('GET', KEYS[1])" and so on. The command name is a
// static identifier, only keys and arguments travel as script parameters.
func callScript(name string, keyCount, argCount int) string {
	var b strings.Builder
	b.WriteString("return redis.call('")
	b.WriteString(strings.ToUpper(name))
	b.WriteString("'")
	for i := 1; i <= keyCount; i++ {
		fmt.Fprintf(&b, ", KEYS[%d]", i)
	}
	for i := 1; i <= argCount; i++ {
		fmt.Fprintf(&b, ", ARGV[%d]", i)
	}
	b.WriteString(")")
	return b.String()
}

// Batch reply tags. Each buffered command reports exactly one tagged entry.
const (
	batchNil   = 0 // command succeeded with a nil reply
	batchValue = 1 // command succeeded, value follows
	batchError = 2 // command failed, server message follows
)

// batchScript runs every buffered command under pcall and reports a tagged
// entry per command, so one failing command neither aborts the batch nor
// loses its position. redis.call failures surface as tables with an err
// field, plain Lua failures as strings; both are captured as the message.
//
// ARGV layout: [command count], then per command [argc, name, arg...].
// KEYS carries the union of all command keys for routing and is not read
// by the script body.
const batchScript = `
local results = {}
local i = 1
local n = tonumber(ARGV[i]); i = i + 1
for c = 1, n do
	local argc = tonumber(ARGV[i]); i = i + 1
	local cmd = {}
	for j = 1, argc do
		cmd[j] = ARGV[i]; i = i + 1
	end
	local ok, res = pcall(redis.call, unpack(cmd))
	if ok then
		if res == false or res == nil then
			results[c] = {0}
		else
			results[c] = {1, res}
		end
	else
		local msg = res
		if type(res) == 'table' and res.err then
			msg = res.err
		end
		results[c] = {2, tostring(msg)}
	end
end
return results
`

// encodeBatch lays out the buffered commands into the KEYS/ARGV shape the
// batch script expects.
func encodeBatch(commands []command) (keys []string, args []string) {
	args = append(args, strconv.Itoa(len(commands)))
	for _, cmd := range commands {
		argc := 1 + len(cmd.keys) + len(cmd.args)
		args = append(args, strconv.Itoa(argc))
		args = append(args, strings.ToUpper(cmd.name))
		args = append(args, cmd.keys...)
		args = append(args, cmd.args...)
		keys = append(keys, cmd.keys...)
		keys = append(keys, cmd.routing...)
	}
	return keys, args
}

// decodeBatch splits the batch reply into one raw value or error per
// command, in issue order.
func decodeBatch(raw any, count int) ([]any, []error, error) {
	entries, ok := raw.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("glide: unexpected batch reply type %T", raw)
	}
	if len(entries) != count {
		return nil, nil, fmt.Errorf("glide: batch reply has %d entries, expected %d", len(entries), count)
	}

	values := make([]any, count)
	errs := make([]error, count)
	for i, entry := range entries {
		tagged, ok := entry.([]any)
		if !ok || len(tagged) == 0 {
			errs[i] = fmt.Errorf("glide: malformed batch entry %d (%T)", i, entry)
			continue
		}
		tag, ok := tagged[0].(int64)
		if !ok {
			errs[i] = fmt.Errorf("glide: malformed batch tag in entry %d (%T)", i, tagged[0])
			continue
		}
		switch tag {
		case batchNil:
			values[i] = nil
		case batchValue:
			if len(tagged) < 2 {
				errs[i] = fmt.Errorf("glide: batch entry %d is missing its value", i)
				continue
			}
			values[i] = tagged[1]
		case batchError:
			msg := ""
			if len(tagged) > 1 {
				msg, _ = tagged[1].(string)
			}
			errs[i] = driver.TranslateReply(msg)
		default:
			errs[i] = fmt.Errorf("glide: unknown batch tag %d in entry %d", tag, i)
		}
	}
	return values, errs, nil
}

// formatArg renders an Eval argument as the string GLIDE's script options
// require. Byte slices pass through unmodified so binary payloads survive.
func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(v)
	}
}
