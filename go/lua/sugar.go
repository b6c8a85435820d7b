package lua

var sugarRc = `
getmetatable("").__mod = func(a, b)
    if type(b) == 'table' then
        return string.format(a, unpack(b))
    end
    return string.format(a, b)
end

func hex(s) return '%x' % s end

func range(a, b, c)
    local i, stop, step = 0, a, 1
    if b != nil then
        if c != nil then step = c end
        i, stop = a, b
    end
    i = i-1
    return func()
        i = i + step
        if (step > 0 and i < stop) or (step < 0 and i > stop) then
            return i
        end
    end
end
`

// helpers for hook scripts, on top of the core table
var hookRc = `
func cstr(c, addr, max_len)
    local out = {}
    while true do
        local ch = c.read_u8(addr)
        addr = addr + 1
        if ch == 0 then break end
        table.insert(out, string.char(ch))
        if max_len != nil and #out >= max_len then break end
    end
    return table.concat(out)
end

func point3d(c, addr)
    return as_float(c.read_u32(addr)), as_float(c.read_u32(addr + 4)), as_float(c.read_u32(addr + 8))
end

func pc_hook(pc, fn, one_shot)
    if one_shot then
        local cookie
        cookie = core.register_pc_hook(pc, func(...)
            core.remove_pc_hook(cookie)
            return fn(...)
        end)
        return cookie
    end
    return core.register_pc_hook(pc, fn)
end

func _range_hook(kind, min, max, fn, one_shot)
    if max == nil then max = min + 1 end
    local register = core['register_' .. kind .. '_hook']
    local remove = core['remove_' .. kind .. '_hook']
    if register == nil then
        error('%s hooks are disabled' % kind)
    end
    if one_shot then
        local cookie
        cookie = register(min, max, func(...)
            remove(cookie)
            return fn(...)
        end)
        return cookie
    end
    return register(min, max, fn)
end

func ram_read_hook(min, max, fn, one_shot) return _range_hook('ram_read', min, max, fn, one_shot) end
func ram_write_hook(min, max, fn, one_shot) return _range_hook('ram_write', min, max, fn, one_shot) end
func cart_read_hook(min, max, fn, one_shot) return _range_hook('cart_read', min, max, fn, one_shot) end
func cart_write_hook(min, max, fn, one_shot) return _range_hook('cart_write', min, max, fn, one_shot) end

func button_hook(fn, ...)
    return core.register_button_hook(buttons(...), fn)
end

-- walks back from pc to the prologue: sw ra,N(sp) and addiu sp,sp,-N
func analyze_fn(c, pc)
    local ra_offset, sp_offset
    local start = pc
    while true do
        local ins = c.read_u32(pc)
        local op = band(ins, 0xFFFF0000)
        if op == 0xAFBF0000 then
            ra_offset = band(ins, 0xFFFF)
        elif op == 0x27BD0000 then
            sp_offset = s16(band(ins, 0xFFFF))
        elif pc <= 0 or ins == 0x03E00008 then
            -- jr ra ends the previous function
            break
        end
        if ra_offset != nil and sp_offset != nil then break end
        if start-pc >= 16384 then
            print('Failed to find function prologue starting at %08X' % start)
            break
        end
        pc = pc-4
    end
    return ra_offset, sp_offset
end

func stack_pcs(c)
    local pcs = {c.pc}
    local pc, sp = u32(c.regs[RA]), u32(c.regs[SP])
    local leaf_ra, leaf_sp = analyze_fn(c, c.pc)
    if leaf_ra != nil then pc = c.read_u32(sp + leaf_ra) end
    if leaf_sp != nil then sp = sp-leaf_sp end
    while #pcs < 512 do
        table.insert(pcs, pc)
        local ra_offset, sp_offset = analyze_fn(c, pc)
        if ra_offset == nil or sp_offset == nil then break end
        -- return address minus the jal and its delay slot
        pc = c.read_u32(sp + ra_offset)-8
        sp = sp-sp_offset
    end
    if #pcs >= 512 then print('WARNING: Hit soft stack limit') end
    return pcs
end

func backtrace(c)
    local pcs = stack_pcs(c)
    print('PC: 0x%08X' % pcs[1])
    for _, pc in ipairs(pcs) do
        print('<- 0x%08X' % pc)
    end
end
`
