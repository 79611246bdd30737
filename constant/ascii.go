package constant

// AsciiArtLogo is the application's banner shown above the root command help.
const AsciiArtLogo = `
 _ __ ___  _ ____   __ (_)_ __   ___
| '_ ` + "`" + ` _ \| '_ \ \ / / | | '_ \ / __|
| | | | | | |_) \ V /  | | |_) | (__
|_| |_| |_| .__/ \_/   |_| .__/ \___|
          |_|            |_|`
